package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/lee-electronics/assistant/internal/model/chat"
	chatService "github.com/lee-electronics/assistant/internal/service/chat"
	"github.com/lee-electronics/assistant/pkg/utils"
)

// healthRecent is how many exchanges GET /api/chat/ lists.
const healthRecent = 5

// Asker answers customer questions.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
	Stats() chatService.Stats
	Recent(n int) []chat.Exchange
}

// Handler serves /api/chat/.
type Handler struct {
	chatSvc Asker
	log     logrus.FieldLogger
}

// New creates the chat handler.
func New(chatSvc Asker, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{chatSvc: chatSvc, log: log}
}

// RegisterRoutes mounts the handler. The trailing slash is part of the route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat/", h.handleAsk)
	r.Get("/chat/", h.handleHealth)
}

func (h *Handler) handleAsk(w http.ResponseWriter, r *http.Request) {
	var payload chat.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, chatService.ErrQuestionRequired.Error())
		return
	}

	answer, err := h.chatSvc.Ask(r.Context(), payload.Question)
	switch {
	case errors.Is(err, chatService.ErrQuestionRequired):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.log.WithError(err).Error("chat request failed")
		utils.RespondError(w, http.StatusInternalServerError, "Internal server error: "+err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, chat.ChatResponse{Answer: &answer})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := h.chatSvc.Stats()
	resp := chat.HealthResponse{
		Status:  "healthy",
		Message: "Lee Electronics AI Chatbot API is running",
		Endpoints: map[string]string{
			"chat":   "/api/chat/ (POST)",
			"health": "/api/chat/ (GET)",
		},
		Answered: stats.Answered,
		Probes:   stats.Probes,
	}
	if !stats.LastAt.IsZero() {
		last := stats.LastAt
		resp.LastExchangeAt = &last
	}
	for _, ex := range h.chatSvc.Recent(healthRecent) {
		resp.Recent = append(resp.Recent, chat.ExchangeSummary{
			ID:        ex.ID,
			Probe:     ex.Probe,
			CreatedAt: ex.CreatedAt,
		})
	}
	utils.RespondJSON(w, http.StatusOK, resp)
}
