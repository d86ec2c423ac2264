package diagnostics

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lee-electronics/assistant/internal/model/chat"
)

type fixedStatus bool

func (s fixedStatus) ModelConfigured() bool { return bool(s) }

func setupRouter(configured bool) *chi.Mux {
	h := New(fixedStatus(configured))
	h.now = func() time.Time { return time.Unix(1714555800, 500_000_000) }

	r := chi.NewRouter()
	r.Route("/api", h.RegisterRoutes)
	return r
}

func TestStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/test/", nil)
	resp := httptest.NewRecorder()
	setupRouter(true).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body chat.BackendDiagnostics
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Backend is working!" || !body.AIConfigured || body.ServerTimestamp != 1714555800.5 {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestEcho(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		received string
	}{
		{"question", `{"question":"Connection test"}`, "Connection test"},
		{"missing", `{}`, "No question provided"},
		{"empty", `{"question":""}`, ""},
		{"malformed", `{`, "No question provided"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/test/", bytes.NewReader([]byte(tc.body)))
			resp := httptest.NewRecorder()
			setupRouter(false).ServeHTTP(resp, req)

			var body chat.EchoResponse
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Response != "Echo: "+tc.received || body.BackendStatus != "working" {
				t.Fatalf("unexpected body %+v", body)
			}
		})
	}
}

func TestRouteNeedsTrailingSlash(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	resp := httptest.NewRecorder()
	setupRouter(false).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
