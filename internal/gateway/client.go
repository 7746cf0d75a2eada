// Package gateway is the thin HTTP client the terminal board uses to talk
// to the kanbo REST API. One request per call, no retries, no caching; the
// caller decides how to surface failures and when to refetch.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gmllt/kanbo/internal/model"
)

// maxErrorBody bounds how much of an error response is kept for logs.
const maxErrorBody = 512

// Client talks to one kanbo server.
type Client struct {
	base string
	hc   *http.Client
}

// New returns a client for the server at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, payload)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Op: op, Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}
	return nil
}

// List fetches all cards.
func (c *Client) List(ctx context.Context) ([]model.Card, error) {
	var cards []model.Card
	if err := c.do(ctx, "list cards", http.MethodGet, "/api/cards", nil, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// Create makes a new card with the given title in the given column. The
// title is validated before any request is sent.
func (c *Client) Create(ctx context.Context, title, status string) (model.Card, error) {
	if err := model.ValidateTitle(title); err != nil {
		return model.Card{}, err
	}
	var card model.Card
	body := map[string]string{"title": title, "status": status}
	if err := c.do(ctx, "create card", http.MethodPost, "/api/card", body, &card); err != nil {
		return model.Card{}, err
	}
	return card, nil
}

// Patch partially updates one card.
func (c *Client) Patch(ctx context.Context, id string, p model.CardPatch) error {
	return c.do(ctx, "update card", http.MethodPatch, "/api/card/"+id, p, nil)
}

// Remove deletes one card. Irreversible; confirmation happens upstream.
func (c *Client) Remove(ctx context.Context, id string) error {
	return c.do(ctx, "delete card", http.MethodDelete, "/api/card/"+id, nil, nil)
}

// Reorder submits the full per-column id ordering for every column.
func (c *Client) Reorder(ctx context.Context, orders model.Snapshot) error {
	body := map[string]model.Snapshot{"orders": orders}
	return c.do(ctx, "reorder board", http.MethodPost, "/api/reorder", body, nil)
}
