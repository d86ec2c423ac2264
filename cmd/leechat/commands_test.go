package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"answer":"Our store opens at 9am."}`))
	})
	mux.HandleFunc("/api/test/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			w.Write([]byte(`{"message":"Backend is working!","timestamp":1,"gemini_configured":true}`))
			return
		}
		w.Write([]byte(`{"received_question":"ping","response":"Echo: ping","backend_status":"working"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAskCommand(t *testing.T) {
	srv := fakeBackend(t)

	out, err := execute(t, "ask", "--base-url", srv.URL, "when", "do", "you", "open?")

	require.NoError(t, err)
	assert.Equal(t, "Our store opens at 9am.\n", out)
}

func TestBaseURLFromEnvSurvivesBadBackendSettings(t *testing.T) {
	srv := fakeBackend(t)
	t.Setenv("LEECHAT_BASE_URL", srv.URL)
	t.Setenv("AI_PROVIDER", "openai")
	t.Setenv("PORT", "not-a-port")

	out, err := execute(t, "ask", "hours?")

	require.NoError(t, err)
	assert.Equal(t, "Our store opens at 9am.\n", out)
}

func TestStatusCommand(t *testing.T) {
	srv := fakeBackend(t)

	out, err := execute(t, "status", "--base-url", srv.URL)

	require.NoError(t, err)
	assert.Contains(t, out, "Status:  Connected")
	assert.Contains(t, out, "AI model configured: true")
}

func TestStatusCommandDisconnected(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	out, err := execute(t, "status", "--base-url", url)

	require.Error(t, err)
	assert.True(t, strings.Contains(out, "Disconnected"))
}

func TestEchoCommand(t *testing.T) {
	srv := fakeBackend(t)

	out, err := execute(t, "echo", "--base-url", srv.URL, "ping")

	require.NoError(t, err)
	assert.Equal(t, "Echo: ping\n", out)
}

func TestAskRequiresQuestion(t *testing.T) {
	_, err := execute(t, "ask")
	require.Error(t, err)
}
