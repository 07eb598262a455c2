package quotations

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Urbanera/Quotation-sub001/internal/customers"
	"github.com/Urbanera/Quotation-sub001/internal/platform/httpx"
)

type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := ListQuotationsRequest{Limit: 50}

	q := r.URL.Query()
	if v := q.Get("customer_id"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			req.CustomerID = &parsed
		}
	}
	if v := q.Get("status"); v != "" {
		status := QuotationStatus(v)
		req.Status = &status
	}
	if v := q.Get("date_from"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			req.DateFrom = &parsed
		}
	}
	if v := q.Get("date_to"); v != "" {
		if parsed, err := time.Parse("2006-01-02", v); err == nil {
			req.DateTo = &parsed
		}
	}
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			req.Limit = parsed
		}
	}
	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			req.Offset = parsed
		}
	}

	quotations, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list quotations", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"quotations": quotations,
		"total":      total,
		"limit":      req.Limit,
		"offset":     req.Offset,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	quotation, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quotation)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateQuotationRequest
	if !h.decode(w, r, &req) {
		return
	}
	quotation, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, quotation)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req UpdateQuotationRequest
	if !h.decode(w, r, &req) {
		return
	}
	quotation, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quotation)
}

func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req ChangeStatusRequest
	if !h.decode(w, r, &req) {
		return
	}
	quotation, err := h.service.ChangeStatus(r.Context(), id, req.Status)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quotation)
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	issues, err := h.service.Validate(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"valid":  len(issues) == 0,
		"issues": issues,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req RoomRequest
	if !h.decode(w, r, &req) {
		return
	}
	quotation, err := h.service.AddRoom(r.Context(), id, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, quotation)
}

func (h *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.pathID(w, r, "roomID")
	if !ok {
		return
	}
	var req RoomRequest
	if !h.decode(w, r, &req) {
		return
	}
	quotation, err := h.service.UpdateRoom(r.Context(), roomID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quotation)
}

func (h *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.pathID(w, r, "roomID")
	if !ok {
		return
	}
	quotation, err := h.service.DeleteRoom(r.Context(), roomID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quotation)
}

func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.pathID(w, r, "roomID")
	if !ok {
		return
	}
	var req LineItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	quotation, err := h.service.AddProduct(r.Context(), roomID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, quotation)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.pathID(w, r, "roomID")
	if !ok {
		return
	}
	productID, ok := h.pathID(w, r, "productID")
	if !ok {
		return
	}
	var req LineItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	quotation, err := h.service.UpdateProduct(r.Context(), roomID, productID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quotation)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.pathID(w, r, "roomID")
	if !ok {
		return
	}
	productID, ok := h.pathID(w, r, "productID")
	if !ok {
		return
	}
	quotation, err := h.service.DeleteProduct(r.Context(), roomID, productID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quotation)
}

func (h *Handler) AddAccessory(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.pathID(w, r, "roomID")
	if !ok {
		return
	}
	var req LineItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	quotation, err := h.service.AddAccessory(r.Context(), roomID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, quotation)
}

func (h *Handler) UpdateAccessory(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.pathID(w, r, "roomID")
	if !ok {
		return
	}
	accessoryID, ok := h.pathID(w, r, "accessoryID")
	if !ok {
		return
	}
	var req LineItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	quotation, err := h.service.UpdateAccessory(r.Context(), roomID, accessoryID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quotation)
}

func (h *Handler) DeleteAccessory(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.pathID(w, r, "roomID")
	if !ok {
		return
	}
	accessoryID, ok := h.pathID(w, r, "accessoryID")
	if !ok {
		return
	}
	quotation, err := h.service.DeleteAccessory(r.Context(), roomID, accessoryID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quotation)
}

func (h *Handler) AddInstallationCharge(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.pathID(w, r, "roomID")
	if !ok {
		return
	}
	var req InstallationChargeRequest
	if !h.decode(w, r, &req) {
		return
	}
	quotation, err := h.service.AddInstallationCharge(r.Context(), roomID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, quotation)
}

func (h *Handler) DeleteInstallationCharge(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.pathID(w, r, "roomID")
	if !ok {
		return
	}
	chargeID, ok := h.pathID(w, r, "chargeID")
	if !ok {
		return
	}
	quotation, err := h.service.DeleteInstallationCharge(r.Context(), roomID, chargeID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quotation)
}

func (h *Handler) AddRoomImage(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.pathID(w, r, "roomID")
	if !ok {
		return
	}
	var req RoomImageRequest
	if !h.decode(w, r, &req) {
		return
	}
	quotation, err := h.service.AddRoomImage(r.Context(), roomID, req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, quotation)
}

func (h *Handler) DeleteRoomImage(w http.ResponseWriter, r *http.Request) {
	roomID, ok := h.pathID(w, r, "roomID")
	if !ok {
		return
	}
	imageID, ok := h.pathID(w, r, "imageID")
	if !ok {
		return
	}
	quotation, err := h.service.DeleteRoomImage(r.Context(), roomID, imageID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quotation)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid "+name)
		return 0, false
	}
	return id, true
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return false
	}
	return true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var terr *TransitionError
	switch {
	case errors.As(err, &terr):
		httpx.ProblemWithIssues(w, http.StatusUnprocessableEntity, "Invalid Transition", terr.Error(), terr.Issues)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrLineNotFound), errors.Is(err, customers.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrNotEditable), errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrStatusConflict):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrDiscountExceedsPrice):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	default:
		h.logger.Error("quotations handler", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
