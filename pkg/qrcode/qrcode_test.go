package qrcode

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:3000", "http://localhost:3000/menu?table=5"},
		{"https://menu.example.com/", "https://menu.example.com/menu?table=5"},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			assert.Equal(t, tt.want, NewGenerator(tt.base).MenuURL(5))
		})
	}
}

func TestDataURL(t *testing.T) {
	g := NewGenerator("http://localhost:3000")

	dataURL, err := g.DataURL(12)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(dataURL, "data:image/png;base64,"))

	png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
