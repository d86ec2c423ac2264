// Package diagnostics serves /api/test/, the endpoint clients use to tell a
// reachable backend from a healthy one.
package diagnostics

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lee-electronics/assistant/internal/model/chat"
	"github.com/lee-electronics/assistant/pkg/utils"
)

const noQuestion = "No question provided"

// ModelStatus reports whether a real model is configured.
type ModelStatus interface {
	ModelConfigured() bool
}

// Handler serves /api/test/.
type Handler struct {
	status ModelStatus
	now    func() time.Time
}

// New creates the diagnostics handler.
func New(status ModelStatus) *Handler {
	return &Handler{status: status, now: time.Now}
}

// RegisterRoutes mounts the handler.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/test/", h.handleStatus)
	r.Post("/test/", h.handleEcho)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	utils.RespondJSON(w, http.StatusOK, chat.BackendDiagnostics{
		Message:         "Backend is working!",
		ServerTimestamp: float64(now.Unix()) + float64(now.Nanosecond())/1e9,
		AIConfigured:    h.status.ModelConfigured(),
	})
}

func (h *Handler) handleEcho(w http.ResponseWriter, r *http.Request) {
	// A pointer tells an absent question from an empty one.
	var payload struct {
		Question *string `json:"question"`
	}
	question := noQuestion
	if err := json.NewDecoder(r.Body).Decode(&payload); err == nil && payload.Question != nil {
		question = *payload.Question
	}

	utils.RespondJSON(w, http.StatusOK, chat.EchoResponse{
		ReceivedQuestion: question,
		Response:         "Echo: " + question,
		BackendStatus:    "working",
	})
}
