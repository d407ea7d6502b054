package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/env"
)

const defaultBaseURL = "http://localhost:8000/api"

// ErrUnauthorized matches every response where the backend rejected the
// bearer token (HTTP 401 or code "token_not_valid").
var ErrUnauthorized = errors.New("backend rejected the access token")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend error: status=%d code=%s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("backend error: status=%d: %s", e.Status, e.Message)
}

func (e *APIError) Unauthorized() bool {
	return e.Status == http.StatusUnauthorized || e.Code == "token_not_valid"
}

func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Unauthorized()
}

// Client talks to the ProvenPro REST backend.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func NewClientFromEnv() *Client {
	return NewClient(
		strings.TrimSpace(env.GetEnv("API_BASE_URL", defaultBaseURL)),
		env.GetDuration("API_TIMEOUT", 15*time.Second),
	)
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}
	return c.do(ctx, method, path, token, body, "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		log.Errorf("[Backend] %s %s failed: %v", method, path, err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	failed := resp.StatusCode < 200 || resp.StatusCode >= 300
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		log.Errorf("[Backend] %s %s: reading body: %v", method, path, err)
		readErr := fmt.Errorf("read %s %s: %w", method, path, err)
		if failed {
			// keep the status so auth rejections stay matchable
			return errors.Join(&APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}, readErr)
		}
		return readErr
	}
	if failed {
		apiErr := parseError(resp.StatusCode, raw)
		log.Warnf("[Backend] %s %s: %v", method, path, apiErr)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// parseError understands {"detail","code"}, {"error"}, {"message"} and
// field maps like {"email": ["already taken"]}.
func parseError(status int, raw []byte) *APIError {
	out := &APIError{Status: status}

	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		out.Message = strings.TrimSpace(string(raw))
		if out.Message == "" {
			out.Message = http.StatusText(status)
		}
		return out
	}

	str := func(key string) string {
		var s string
		if v, ok := generic[key]; ok {
			_ = json.Unmarshal(v, &s)
		}
		return s
	}

	out.Code = str("code")
	for _, key := range []string{"detail", "error", "message"} {
		if s := str(key); s != "" {
			out.Message = s
			return out
		}
	}

	keys := make([]string, 0, len(generic))
	for k := range generic {
		if k != "code" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		var list []string
		if err := json.Unmarshal(generic[k], &list); err == nil {
			parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(list, " ")))
			continue
		}
		var s string
		if err := json.Unmarshal(generic[k], &s); err == nil {
			parts = append(parts, fmt.Sprintf("%s: %s", k, s))
		}
	}
	out.Message = strings.Join(parts, " | ")
	if out.Message == "" {
		out.Message = http.StatusText(status)
	}
	return out
}

// Message returns a text suitable for a flash message.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Something went wrong. Please try again."
}
