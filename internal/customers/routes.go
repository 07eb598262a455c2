package customers

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/stage", h.ChangeStage)
	r.Get("/{id}/follow-ups", h.ListFollowUps)
	r.Post("/{id}/follow-ups", h.AddFollowUp)
	r.Post("/{id}/follow-ups/{followUpID}/complete", h.CompleteFollowUp)
}
