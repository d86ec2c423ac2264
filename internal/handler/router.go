package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/lee-electronics/assistant/internal/handler/chat"
	"github.com/lee-electronics/assistant/internal/handler/diagnostics"
	middlewarePkg "github.com/lee-electronics/assistant/internal/middleware"
	chatService "github.com/lee-electronics/assistant/internal/service/chat"
	"github.com/lee-electronics/assistant/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, allowedOrigins []string, log logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	chatHandler := chat.New(chatSvc, log)
	diagnosticsHandler := diagnostics.New(chatSvc)

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		diagnosticsHandler.RegisterRoutes(api)
	})

	return r
}
