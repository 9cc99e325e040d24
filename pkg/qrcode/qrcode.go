// Package qrcode renders the menu QR codes printed on restaurant tables.
package qrcode

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	goqrcode "github.com/skip2/go-qrcode"
)

const defaultSize = 256

type Generator struct {
	BaseURL string
	Size    int
	Level   goqrcode.RecoveryLevel
}

func NewGenerator(baseURL string) *Generator {
	return &Generator{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Size:    defaultSize,
		Level:   goqrcode.Medium,
	}
}

// MenuURL is the address a table's QR code points at.
func (g *Generator) MenuURL(tableID uint) string {
	q := url.Values{}
	q.Set("table", fmt.Sprint(tableID))
	return g.BaseURL + "/menu?" + q.Encode()
}

// PNG encodes the menu URL for tableID as a PNG image.
func (g *Generator) PNG(tableID uint) ([]byte, error) {
	png, err := goqrcode.Encode(g.MenuURL(tableID), g.Level, g.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code for table %d: %w", tableID, err)
	}
	return png, nil
}

// DataURL returns the PNG as a data: URL suitable for an <img> src.
func (g *Generator) DataURL(tableID uint) (string, error) {
	png, err := g.PNG(tableID)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
