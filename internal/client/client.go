// Package client talks to the assistant backend over its small JSON API.
//
// Every failure that crosses the package boundary is a plain error whose text
// starts with the name of the operation that failed, e.g.
// "Failed to send message: HTTP 500: boom". Callers never need to inspect
// status codes or decode error bodies themselves.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/lee-electronics/assistant/internal/model/chat"
	"github.com/lee-electronics/assistant/pkg/utils"
)

const (
	// DefaultBaseURL is where the backend listens in a local setup.
	DefaultBaseURL = "http://127.0.0.1:8000"

	chatPath = "/api/chat/"
	testPath = "/api/test/"

	// probeQuestion is posted to the chat endpoint as a connectivity check.
	// The backend answers it without calling a model.
	probeQuestion = "test"

	echoFallback = "Echo test successful"
)

var errEndpointNotFound = errors.New("API endpoint not found. Make sure the backend server is running on port 8000.")

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     logrus.FieldLogger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLogger routes diagnostic output to l.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for the backend at baseURL. An empty baseURL selects
// DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		http:    utils.NewHTTPClient(0),
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the normalised backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SendMessage posts question to the chat endpoint and returns the answer.
func (c *Client) SendMessage(ctx context.Context, question string) (string, error) {
	answer, err := c.sendMessage(ctx, question)
	if err != nil {
		return "", errors.Wrap(err, "Failed to send message")
	}
	return answer, nil
}

func (c *Client) sendMessage(ctx context.Context, question string) (string, error) {
	resp, err := c.postJSON(ctx, chatPath, chat.ChatRequest{Question: question})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		if resp.StatusCode == http.StatusNotFound {
			return "", errEndpointNotFound
		}
		return "", errorFromBody(resp)
	}

	var payload chat.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", errors.Wrap(err, "decode response")
	}
	if payload.Answer == nil {
		return "", errors.New("response missing answer field")
	}
	return *payload.Answer, nil
}

// TestConnection is a best-effort reachability check. It posts the probe
// question to the chat endpoint and, if that is not a 2xx, falls back to the
// diagnostic endpoint. A false result may be a false negative.
func (c *Client) TestConnection(ctx context.Context) bool {
	resp, err := c.postJSON(ctx, chatPath, chat.ChatRequest{Question: probeQuestion})
	if err != nil {
		c.log.WithError(err).Warn("connection test failed")
		return false
	}
	drain(resp)
	if isSuccess(resp.StatusCode) {
		return true
	}

	c.log.WithField("status", resp.StatusCode).Debug("chat probe rejected, trying diagnostic endpoint")

	resp, err = c.get(ctx, testPath)
	if err != nil {
		c.log.WithError(err).Warn("connection test failed")
		return false
	}
	drain(resp)
	return isSuccess(resp.StatusCode)
}

// GetBackendStatus fetches the diagnostic payload. Any failure yields nil.
func (c *Client) GetBackendStatus(ctx context.Context) *chat.BackendDiagnostics {
	resp, err := c.get(ctx, testPath)
	if err != nil {
		c.log.WithError(err).Debug("backend status unavailable")
		return nil
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		c.log.WithField("status", resp.StatusCode).Debug("backend status unavailable")
		return nil
	}

	var info chat.BackendDiagnostics
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		c.log.WithError(err).Debug("backend status undecodable")
		return nil
	}
	return &info
}

// TestEcho round-trips message through the diagnostic endpoint.
func (c *Client) TestEcho(ctx context.Context, message string) (string, error) {
	reply, err := c.testEcho(ctx, message)
	if err != nil {
		return "", errors.Wrap(err, "Echo test failed")
	}
	return reply, nil
}

func (c *Client) testEcho(ctx context.Context, message string) (string, error) {
	resp, err := c.postJSON(ctx, testPath, chat.ChatRequest{Question: message})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", errors.New("Echo test failed")
	}

	var payload chat.EchoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", errors.Wrap(err, "decode response")
	}
	if payload.Response == "" {
		return echoFallback, nil
	}
	return payload.Response, nil
}

// Health reads the chat endpoint's GET health view.
func (c *Client) Health(ctx context.Context) (*chat.HealthResponse, error) {
	resp, err := c.get(ctx, chatPath)
	if err != nil {
		return nil, errors.Wrap(err, "Health check failed")
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return nil, errors.Wrap(errorFromBody(resp), "Health check failed")
	}

	var health chat.HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, errors.Wrap(err, "Health check failed")
	}
	return &health, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body interface{}) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.http.Do(req)
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.http.Do(req)
}

// errorFromBody turns a non-2xx response into an error, preferring the
// backend's {"error": "..."} message over a synthesized one.
func errorFromBody(resp *http.Response) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("HTTP %d: %v", resp.StatusCode, err)
	}

	var payload chat.ErrorResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(raw))
	}
	if payload.Error == "" {
		return fmt.Errorf("HTTP error! status: %d", resp.StatusCode)
	}
	return errors.New(payload.Error)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
