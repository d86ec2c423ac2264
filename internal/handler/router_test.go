package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/lee-electronics/assistant/internal/client"
	"github.com/lee-electronics/assistant/internal/service/ai"
	chatService "github.com/lee-electronics/assistant/internal/service/chat"
	"github.com/lee-electronics/assistant/internal/service/knowledge"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)

	corpus := knowledge.FromDocuments([]string{"Lee Electronics sells TVs, smartphones and laptops."}, 500)
	svc := chatService.NewService(
		knowledge.NewKeywordRetriever(corpus, 3),
		ai.NewService(ai.MockGenerator{}, l),
		chatService.WithLogger(l),
	)

	srv := httptest.NewServer(NewRouter(svc, []string{"http://localhost:3000"}, l))
	t.Cleanup(srv.Close)
	return srv
}

func TestRouterServesClientEndToEnd(t *testing.T) {
	srv := newTestServer(t)
	c := client.New(srv.URL)
	ctx := context.Background()

	if !c.TestConnection(ctx) {
		t.Fatal("expected connection check to pass")
	}

	answer, err := c.SendMessage(ctx, "Do you sell laptops?")
	if err != nil {
		t.Fatalf("SendMessage err: %v", err)
	}
	if answer != "Mock response for: Do you sell laptops?. (Note: Gemini AI is not configured. Please set up your API key to get real AI responses.)" {
		t.Fatalf("unexpected answer %q", answer)
	}

	info := c.GetBackendStatus(ctx)
	if info == nil || info.Message != "Backend is working!" || info.AIConfigured {
		t.Fatalf("unexpected diagnostics %+v", info)
	}

	echo, err := c.TestEcho(ctx, "Connection test")
	if err != nil || echo != "Echo: Connection test" {
		t.Fatalf("unexpected echo %q err=%v", echo, err)
	}

	health, err := c.Health(ctx)
	if err != nil || health.Status != "healthy" || health.Answered != 1 {
		t.Fatalf("unexpected health %+v err=%v", health, err)
	}
}

func TestRouterMissingQuestionThroughClient(t *testing.T) {
	srv := newTestServer(t)

	_, err := client.New(srv.URL).SendMessage(context.Background(), "")
	if err == nil || err.Error() != "Failed to send message: Question is required." {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestRouterUnknownRouteIsJSON404(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/chat", "application/json", bytes.NewReader([]byte(`{"question":"hi"}`)))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("expected error field, got %v", body)
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/chat/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
