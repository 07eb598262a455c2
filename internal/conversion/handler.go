package conversion

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Urbanera/Quotation-sub001/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) ToSalesOrder(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid quotation id")
		return
	}

	var ov SalesOrderOverrides
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &ov); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
			return
		}
	}

	order, err := h.service.ToSalesOrder(r.Context(), id, ov)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *Handler) QuotationToInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid quotation id")
		return
	}

	var ov InvoiceOverrides
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &ov); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
			return
		}
	}

	invoice, err := h.service.QuotationToInvoice(r.Context(), id, ov)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, invoice)
}

func (h *Handler) OrderToInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid sales order id")
		return
	}

	var ov InvoiceOverrides
	if r.ContentLength > 0 {
		if err := httpx.DecodeJSON(r, &ov); err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
			return
		}
	}

	invoice, err := h.service.OrderToInvoice(r.Context(), id, ov)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, invoice)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var already *AlreadyConvertedError
	var notApproved *NotApprovedError
	var cancelled *OrderCancelledError
	switch {
	case errors.As(err, &already):
		httpx.ProblemWithExisting(w, http.StatusConflict, "Already Converted", already.Error(), already.ExistingID)
	case errors.As(err, &notApproved):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Not Approved", notApproved.Error())
	case errors.As(err, &cancelled):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Order Cancelled", cancelled.Error())
	case errors.Is(err, ErrQuotationNotFound), errors.Is(err, ErrSalesOrderNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		h.logger.Error("conversion handler", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
