// Package client talks to the ordering API as a signed-in staff member.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"qr_ordering/internal/models"

	"github.com/sirupsen/logrus"
)

type Client struct {
	BaseURL    string
	WSURL      string
	HTTPClient *http.Client

	// ReconnectDelay is the fixed wait between WebSocket connection attempts.
	ReconnectDelay time.Duration
	// Debounce is how long events are collected before a batch is handed over.
	Debounce time.Duration

	log logrus.FieldLogger

	mu       sync.Mutex
	token    string
	username string
	password string
}

// APIError is a non-success envelope or status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func NewClient(baseURL, wsURL string, log logrus.FieldLogger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		WSURL:   wsURL,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		ReconnectDelay: 5 * time.Second,
		Debounce:       500 * time.Millisecond,
		log:            log,
	}
}

// Login signs in and keeps the credentials so an expired token is renewed once on 401.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var result struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.send(ctx, http.MethodPost, "/api/auth/login", body, &result, ""); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	c.mu.Lock()
	c.token = result.Token
	c.username = username
	c.password = password
	c.mu.Unlock()
	return nil
}

// ListActiveOrders returns every order that is neither completed nor cancelled.
func (c *Client) ListActiveOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &orders); err != nil {
		return nil, err
	}
	active := orders[:0]
	for _, order := range orders {
		if !order.Status.Terminal() {
			active = append(active, order)
		}
	}
	return active, nil
}

func (c *Client) GetOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d/items", orderID), nil, &items)
	return items, err
}

func (c *Client) UpdateOrderItemStatus(ctx context.Context, orderID, itemID uint, status models.ItemStatus) error {
	path := fmt.Sprintf("/api/orders/%d/items/%d/status", orderID, itemID)
	return c.do(ctx, http.MethodPut, path, map[string]string{"status": string(status)}, nil)
}

func (c *Client) UpdateOrderStatus(ctx context.Context, orderID uint, status models.OrderStatus) error {
	path := fmt.Sprintf("/api/orders/%d/status", orderID)
	return c.do(ctx, http.MethodPut, path, map[string]string{"status": string(status)}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	c.mu.Lock()
	token, username, password := c.token, c.username, c.password
	c.mu.Unlock()

	err := c.send(ctx, method, path, body, out, token)
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.StatusCode != http.StatusUnauthorized || username == "" {
		return err
	}

	c.log.Info("token rejected, signing in again")
	if err := c.Login(ctx, username, password); err != nil {
		return err
	}
	c.mu.Lock()
	token = c.token
	c.mu.Unlock()
	return c.send(ctx, method, path, body, out, token)
}

func (c *Client) send(ctx context.Context, method, path string, body, out interface{}, token string) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "unparseable response"}
	}
	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Error}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
