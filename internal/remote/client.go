// Package remote is the HTTP client of the system of record that the local
// store is kept in step with.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/jackson-sweet/opsapp-sub001/internal/domain"
)

// Config holds the client settings.
type Config struct {
	BaseURL    string
	Token      string
	TimeoutMs  int
	MaxRetries int
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "http://localhost:8088",
		TimeoutMs:  10000,
		MaxRetries: 1,
	}
}

// Client talks to the system of record.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client. A nil observer discards events.
func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = DefaultConfig().TimeoutMs
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// UpdateChildParent re-points one child on the backend.
func (c *Client) UpdateChildParent(ctx context.Context, kind domain.ParentKind, childID, newParentID string, aux Aux) error {
	r, err := RouteFor(kind)
	if err != nil {
		return err
	}
	return c.call(ctx, "update_child_parent", kind, 1, http.MethodPatch, r.childPath(childID), EncodeRepoint(r, newParentID, aux))
}

// BulkUpdateChildParent re-points every child in childIDs with one request.
func (c *Client) BulkUpdateChildParent(ctx context.Context, kind domain.ParentKind, childIDs []string, newParentID string, aux Aux) error {
	if len(childIDs) == 0 {
		return nil
	}
	r, err := RouteFor(kind)
	if err != nil {
		return err
	}
	return c.call(ctx, "bulk_update_child_parent", kind, len(childIDs), http.MethodPost, r.bulkPath(), EncodeBulkRepoint(r, childIDs, newParentID, aux))
}

// DeleteParent deletes the parent on the backend.
func (c *Client) DeleteParent(ctx context.Context, kind domain.ParentKind, parentID string) error {
	r, err := RouteFor(kind)
	if err != nil {
		return err
	}
	return c.call(ctx, "delete_parent", kind, 1, http.MethodDelete, r.parentPath(parentID), nil)
}

func (c *Client) call(ctx context.Context, op string, kind domain.ParentKind, items int, method, path string, body any) error {
	start := time.Now()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling %s request: %w", op, err)
		}
	}

	var lastErr error
	attempts := 1 + c.cfg.MaxRetries
	made := 0
	for i := 0; i < attempts; i++ {
		made++
		lastErr = c.doRequest(ctx, op, method, path, payload)
		if lastErr == nil || !retryable(lastErr) || ctx.Err() != nil {
			break
		}
	}

	c.observer.OnCallComplete(CallEvent{
		Op:        op,
		Kind:      string(kind),
		Items:     items,
		Attempts:  made,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   lastErr == nil,
		ErrorCode: errorCode(lastErr),
	})
	return lastErr
}

func (c *Client) doRequest(ctx context.Context, op, method, path string, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("%s: reading response: %w: %w", op, ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServerError{Op: op, Status: resp.StatusCode, Message: errorMessage(respBody)}
	}
	return nil
}

func errorMessage(body []byte) string {
	var eb ErrorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		return eb.Error
	}
	return string(bytes.TrimSpace(body))
}

func retryable(err error) bool {
	if errors.Is(err, ErrNetwork) {
		return true
	}
	var se *ServerError
	return errors.As(err, &se) && se.Retryable()
}
