package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chathandler "github.com/lingobuddy/backend/internal/handler/chat"
	middlewarePkg "github.com/lingobuddy/backend/internal/middleware"
	"github.com/lingobuddy/backend/internal/ratelimit"
	chatservice "github.com/lingobuddy/backend/internal/service/chat"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(store chatservice.Store, aiSvc chathandler.Responder, limiter ratelimit.Limiter, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigins))

	// Liveness probe for the frontend and load balancer.
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	chatHandler := chathandler.New(store, aiSvc, limiter)
	chatHandler.RegisterRoutes(r)

	return r
}
