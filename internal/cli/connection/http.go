package connection

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yndnr/shardkv-go/internal/infra/buildinfo"
	"github.com/yndnr/shardkv-go/internal/server/httpserver/handler"
)

// DefaultTimeout bounds a request when the caller sets none.
const DefaultTimeout = 10 * time.Second

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// HTTPClient provides HTTP communication with the server.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a client for server, which may omit the scheme.
func NewHTTPClient(server string, timeout time.Duration) *HTTPClient {
	baseURL := strings.TrimRight(server, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &HTTPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the base URL of the client.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Get fetches the value stored under key.
func (c *HTTPClient) Get(ctx context.Context, key string) ([]byte, error) {
	var resp handler.ValueResponse
	if err := c.do(ctx, http.MethodGet, keyPath(key), nil, &resp); err != nil {
		return nil, err
	}
	return decodeValue(resp)
}

// Put stores value under key. Values that are not valid UTF-8 are sent
// base64 encoded.
func (c *HTTPClient) Put(ctx context.Context, key string, value []byte) (*handler.PutResponse, error) {
	req := handler.PutRequest{Key: &key}
	v := string(value)
	if !utf8.Valid(value) {
		v = base64.StdEncoding.EncodeToString(value)
		req.Encoding = handler.EncodingBase64
	}
	req.Value = &v

	var resp handler.PutResponse
	if err := c.do(ctx, http.MethodPost, "/api", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Delete removes key and returns the removed value.
func (c *HTTPClient) Delete(ctx context.Context, key string) ([]byte, error) {
	var resp handler.ValueResponse
	if err := c.do(ctx, http.MethodDelete, keyPath(key), nil, &resp); err != nil {
		return nil, err
	}
	return decodeValue(resp)
}

// Stats fetches per-shard occupancy.
func (c *HTTPClient) Stats(ctx context.Context) (*handler.StatsResponse, error) {
	var resp handler.StatsResponse
	if err := c.do(ctx, http.MethodGet, "/admin/v1/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health calls /health, or /ready when ready is true.
func (c *HTTPClient) Health(ctx context.Context, ready bool) (*handler.StatusResponse, error) {
	path := "/health"
	if ready {
		path = "/ready"
	}
	var resp handler.StatusResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, target any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "shardkv-cli/"+buildinfo.Version)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return ParseResponse(resp, target)
}

// ParseResponse decodes a JSON response body into target, or returns an
// *APIError for status codes >= 400.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var errResp handler.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
			apiErr.Code = errResp.Code
			apiErr.Message = errResp.Message
		}
		return apiErr
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

// keyPath builds /api/<key>, escaping characters that are not path-safe.
// Slashes stay literal; the server route captures the remaining path.
func keyPath(key string) string {
	u := url.URL{Path: "/api/" + key}
	return u.EscapedPath()
}

func decodeValue(resp handler.ValueResponse) ([]byte, error) {
	switch resp.Encoding {
	case "":
		return []byte(resp.Value), nil
	case handler.EncodingBase64:
		b, err := base64.StdEncoding.DecodeString(resp.Value)
		if err != nil {
			return nil, fmt.Errorf("decode base64 value: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported value encoding %q", resp.Encoding)
	}
}
