// Package remote calls the external guide-generation API over HTTP.
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
	"strings"
	"time"

	"puente-backend/internal/generation"
)

const generatePath = "/generate"

// Client implements generation.Generator against the guide API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a client for baseURL. A zero timeout leaves the wait
// bounded only by the remote service and the caller's context.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("GENERATION_API_URL is required")
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

// Generate posts the request once; there are no retries.
func (c *Client) Generate(ctx context.Context, in generation.Request) (generation.Response, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return generation.Response{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return generation.Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return generation.Response{}, &generation.Error{Message: "Timeout", Err: err}
		}
		return generation.Response{}, &generation.Error{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return generation.Response{}, &generation.Error{Status: resp.StatusCode, Message: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return generation.Response{}, &generation.Error{
			Status:  resp.StatusCode,
			Message: detailMessage(body, resp.StatusCode),
		}
	}

	var parsed generation.Response
	if err := json.Unmarshal(body, &parsed); err != nil {
		return generation.Response{}, &generation.Error{
			Status:  resp.StatusCode,
			Message: "generation response parse failed",
			Err:     err,
		}
	}
	return parsed, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// detailMessage extracts the API's "detail" field: a string for handled
// errors, a list of {msg} objects for request validation errors.
func detailMessage(body []byte, status int) string {
	fallback := fmt.Sprintf("generation failed: http status %d", status)
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Detail) == 0 {
		return fallback
	}
	var text string
	if err := json.Unmarshal(parsed.Detail, &text); err == nil {
		if strings.TrimSpace(text) != "" {
			return text
		}
		return fallback
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(parsed.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if m := strings.TrimSpace(it.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, "; ")
		}
	}
	return fallback
}

var _ generation.Generator = (*Client)(nil)
