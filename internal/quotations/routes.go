package quotations

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/status", h.ChangeStatus)
	r.Get("/{id}/validate", h.Validate)
	r.Post("/{id}/rooms", h.AddRoom)

	r.Route("/rooms/{roomID}", func(r chi.Router) {
		r.Patch("/", h.UpdateRoom)
		r.Delete("/", h.DeleteRoom)
		r.Post("/products", h.AddProduct)
		r.Patch("/products/{productID}", h.UpdateProduct)
		r.Delete("/products/{productID}", h.DeleteProduct)
		r.Post("/accessories", h.AddAccessory)
		r.Patch("/accessories/{accessoryID}", h.UpdateAccessory)
		r.Delete("/accessories/{accessoryID}", h.DeleteAccessory)
		r.Post("/installation-charges", h.AddInstallationCharge)
		r.Delete("/installation-charges/{chargeID}", h.DeleteInstallationCharge)
		r.Post("/images", h.AddRoomImage)
		r.Delete("/images/{imageID}", h.DeleteRoomImage)
	})
}
