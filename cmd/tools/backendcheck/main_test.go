package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/lee-electronics/assistant/internal/client"
)

func TestCheckerAllPass(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			w.Write([]byte(`{"status":"healthy","message":"Lee Electronics AI Chatbot API is running"}`))
			return
		}
		w.Write([]byte(`{"answer":"ok"}`))
	})
	mux.HandleFunc("/api/test/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"Backend is working!","timestamp":1.5,"gemini_configured":false}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	var out bytes.Buffer
	c := &checker{client: client.New(srv.URL), out: &out, quick: time.Second, slow: time.Second}

	if failed := c.run(context.Background(), "What products do you offer?"); failed != 0 {
		t.Fatalf("expected no failures, got %d\n%s", failed, out.String())
	}
	if !strings.Contains(out.String(), "Gemini configured: false") || !strings.Contains(out.String(), "Backend testing complete") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestCheckerBackendDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var out bytes.Buffer
	c := &checker{client: client.New(url), out: &out, quick: time.Second, slow: time.Second}

	if failed := c.run(context.Background(), "hi"); failed != 4 {
		t.Fatalf("expected 4 failures, got %d\n%s", failed, out.String())
	}
}
