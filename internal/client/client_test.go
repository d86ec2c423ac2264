package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, WithLogger(quietLogger()))
}

func TestSendMessageReturnsAnswer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/chat/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "What products do you offer?", body["question"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":"X"}`))
	})

	answer, err := c.SendMessage(context.Background(), "What products do you offer?")
	require.NoError(t, err)
	require.Equal(t, "X", answer)
}

func TestSendMessageNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.SendMessage(context.Background(), "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "endpoint not found")
	require.True(t, strings.HasPrefix(err.Error(), "Failed to send message: "))
}

func TestSendMessageErrorBodies(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"json error field", http.StatusBadRequest, `{"error":"Question is required."}`, "Failed to send message: Question is required."},
		{"json without error field", http.StatusInternalServerError, `{"detail":"nope"}`, "Failed to send message: HTTP error! status: 500"},
		{"plain text body", http.StatusBadGateway, "upstream down", "Failed to send message: HTTP 502: upstream down"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := c.SendMessage(context.Background(), "hello")
			require.Error(t, err)
			require.Equal(t, tc.expected, err.Error())
		})
	}
}

func TestSendMessageMissingAnswer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"reply":"wrong shape"}`))
	})

	_, err := c.SendMessage(context.Background(), "hello")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing answer")
}

func TestSendMessageMalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := c.SendMessage(context.Background(), "hello")
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "Failed to send message: "))
}

func TestSendMessageNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, WithLogger(quietLogger()))
	_, err := c.SendMessage(context.Background(), "hello")
	require.Error(t, err)
	require.True(t, strings.HasPrefix(err.Error(), "Failed to send message: "))
}

func TestTestConnectionPrimaryOKWithUnparseableBody(t *testing.T) {
	var secondary atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/test/" {
			secondary.Add(1)
		}
		_, _ = w.Write([]byte("<html>ok</html>"))
	})

	require.True(t, c.TestConnection(context.Background()))
	require.Zero(t, secondary.Load())
}

func TestTestConnectionPostsSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test", body["question"])
		w.WriteHeader(http.StatusNoContent)
	})

	require.True(t, c.TestConnection(context.Background()))
}

func TestTestConnectionFallsBackToDiagnostics(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/chat/":
			w.WriteHeader(http.StatusInternalServerError)
		case r.URL.Path == "/api/test/" && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`{"message":"Backend is working!"}`))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	require.True(t, c.TestConnection(context.Background()))
}

func TestTestConnectionBothFail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	require.False(t, c.TestConnection(context.Background()))
}

func TestTestConnectionNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, WithLogger(quietLogger()))
	require.False(t, c.TestConnection(context.Background()))
}

func TestGetBackendStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`{"message":"Backend is working!","timestamp":1712345678.5,"gemini_configured":true}`))
	})

	info := c.GetBackendStatus(context.Background())
	require.NotNil(t, info)
	require.Equal(t, "Backend is working!", info.Message)
	require.Equal(t, 1712345678.5, info.ServerTimestamp)
	require.True(t, info.AIConfigured)
}

func TestGetBackendStatusSwallowsFailures(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	require.Nil(t, c.GetBackendStatus(context.Background()))

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("garbage"))
	})
	require.Nil(t, c.GetBackendStatus(context.Background()))
}

func TestTestEcho(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/test/", r.URL.Path)
		_, _ = w.Write([]byte(`{"response":"Echo: Connection test"}`))
	})

	reply, err := c.TestEcho(context.Background(), "Connection test")
	require.NoError(t, err)
	require.Equal(t, "Echo: Connection test", reply)
}

func TestTestEchoFallbackLiteral(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	reply, err := c.TestEcho(context.Background(), "ping")
	require.NoError(t, err)
	require.Equal(t, "Echo test successful", reply)
}

func TestTestEchoFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.TestEcho(context.Background(), "ping")
	require.EqualError(t, err, "Echo test failed: Echo test failed")
}

func TestHealth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/chat/", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"healthy","message":"up"}`))
	})

	health, err := c.Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, "healthy", health.Status)
}

func TestNewNormalisesBaseURL(t *testing.T) {
	require.Equal(t, DefaultBaseURL, New("").BaseURL())
	require.Equal(t, "http://localhost:8000", New(" http://localhost:8000/ ").BaseURL())
}
