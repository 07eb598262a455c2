package documents

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Urbanera/Quotation-sub001/internal/customers"
	"github.com/Urbanera/Quotation-sub001/internal/invoices"
	"github.com/Urbanera/Quotation-sub001/internal/payments"
	"github.com/Urbanera/Quotation-sub001/internal/platform/httpx"
	"github.com/Urbanera/Quotation-sub001/internal/quotations"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) QuotationPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid quotation id")
		return
	}
	doc, err := h.service.QuotationPDF(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.serveDocument(w, doc)
}

func (h *Handler) InvoicePDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid invoice id")
		return
	}
	doc, err := h.service.InvoicePDF(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.serveDocument(w, doc)
}

func (h *Handler) ReceiptPDF(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid payment id")
		return
	}
	doc, err := h.service.ReceiptPDF(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	h.serveDocument(w, doc)
}

func (h *Handler) serveDocument(w http.ResponseWriter, doc *Document) {
	if doc.MediaType != "application/pdf" {
		h.logger.Warn("serving html fallback", slog.String("file", doc.Filename))
	}
	w.Header().Set("Content-Type", doc.MediaType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Data)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, quotations.ErrNotFound), errors.Is(err, invoices.ErrNotFound),
		errors.Is(err, payments.ErrNotFound), errors.Is(err, customers.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		h.logger.Error("documents handler", slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Render Failed", "document could not be generated")
	}
}
