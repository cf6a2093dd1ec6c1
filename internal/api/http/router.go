package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/checkmate-app/progression-server/internal/logger"
)

// NewRouter wires the handler onto a chi router.
func NewRouter(h *Handler, logger *logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(logger))

	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)

	r.Route("/users/{userID}", func(r chi.Router) {
		r.Get("/stats", h.GetStats)
		r.Post("/tasks/complete", h.CompleteTasks)
		r.Post("/purchase", h.Purchase)
		r.Post("/title", h.EquipTitle)
		r.Post("/goals", h.IncrementGoals)
		r.Put("/settings", h.UpdateSettings)
	})

	return r
}
