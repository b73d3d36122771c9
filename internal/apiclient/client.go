// Package apiclient talks to the pharmacy REST backend.
//
// Every endpoint answers with the envelope {success, message, data}. A call
// fails when the transport fails, when the status is not 2xx, or when the
// envelope reports success=false; in the last two cases the error is an
// *Error carrying the server's message or a per-call fallback.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Error is a failure reported by the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Message returns the operator-facing text for err.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// Client is a session-holding backend client. The session cookie set by the
// backend on login lives in the client's cookie jar for the lifetime of the
// process.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *log.Logger
	token   string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. A jar is attached when
// hc has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New constructs a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q: scheme and host are required", baseURL)
	}

	c := &Client{
		baseURL: u,
		// No timeout: a hung request hangs the action that issued it.
		http:   &http.Client{},
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.http.Jar = jar
	}
	return c, nil
}

// Token returns the bearer token issued at login, if the backend issued one.
func (c *Client) Token() string {
	return c.token
}

type envelope struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
	LoggedIn bool            `json:"logged_in"`
	SaleID   int64           `json:"sale_id"`
	ID       int64           `json:"id"`
	UserID   int64           `json:"user_id"`
	Token    string          `json:"token"`
}

// call performs the request and enforces the envelope contract.
func (c *Client) call(ctx context.Context, method, path string, body any, fallback string) (*envelope, error) {
	env, status, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	if env == nil {
		return nil, &Error{Status: status, Message: fallback}
	}
	if status < 200 || status > 299 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fallback
		}
		return nil, &Error{Status: status, Message: msg}
	}
	return env, nil
}

// do sends one request. A nil envelope with a nil error means the response
// body was not a JSON envelope.
func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return nil, 0, err
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("%s %s [%s] failed: %v", method, path, requestID, err)
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer res.Body.Close()
	c.logger.Printf("%s %s [%s] -> %d", method, path, requestID, res.StatusCode)

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, res.StatusCode, nil
	}
	return &env, res.StatusCode, nil
}

func decodeData(env *envelope, dest any) error {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}
