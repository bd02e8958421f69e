package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"polypong/network"
)

// Client talks to a broker over HTTP. Transport failures wrap
// network.ErrTransport.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Register announces a host's websocket address and returns its code.
func (c *Client) Register(ctx context.Context, addr string) (string, error) {
	body, err := json.Marshal(registerRequest{Addr: addr})
	if err != nil {
		return "", err
	}
	var out registerResponse
	if err := c.do(ctx, http.MethodPost, "/peers", body, http.StatusCreated, &out); err != nil {
		return "", err
	}
	if err := ValidateCode(out.Code); err != nil {
		return "", fmt.Errorf("%w: broker returned %v", network.ErrTransport, err)
	}
	return out.Code, nil
}

// Resolve looks up the host address behind code.
func (c *Client) Resolve(ctx context.Context, code string) (string, error) {
	if err := ValidateCode(code); err != nil {
		return "", err
	}
	var e Entry
	if err := c.do(ctx, http.MethodGet, "/peers/"+url.PathEscape(code), nil, http.StatusOK, &e); err != nil {
		return "", err
	}
	return e.Addr, nil
}

func (c *Client) Unregister(ctx context.Context, code string) error {
	if err := ValidateCode(code); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/peers/"+url.PathEscape(code), nil, http.StatusNoContent, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, want int, out any) error {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: broker: %v", network.ErrTransport, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrUnknownCode, strings.TrimPrefix(path, "/peers/"))
	case resp.StatusCode != want:
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%w: broker %s %s: %s %s", network.ErrTransport, method, path, resp.Status, e.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: broker response: %v", network.ErrTransport, err)
	}
	return nil
}
