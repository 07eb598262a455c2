package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Urbanera/Quotation-sub001/internal/catalog"
	"github.com/Urbanera/Quotation-sub001/internal/conversion"
	"github.com/Urbanera/Quotation-sub001/internal/customers"
	"github.com/Urbanera/Quotation-sub001/internal/documents"
	"github.com/Urbanera/Quotation-sub001/internal/invoices"
	"github.com/Urbanera/Quotation-sub001/internal/observability"
	"github.com/Urbanera/Quotation-sub001/internal/orders"
	"github.com/Urbanera/Quotation-sub001/internal/payments"
	"github.com/Urbanera/Quotation-sub001/internal/quotations"
	"github.com/Urbanera/Quotation-sub001/internal/settings"
	"github.com/Urbanera/Quotation-sub001/internal/stats"
	"github.com/Urbanera/Quotation-sub001/jobs"
)

// RouterParams aggregates all mounted handlers.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	CustomersHandler  *customers.Handler
	QuotationsHandler *quotations.Handler
	ConversionHandler *conversion.Handler
	OrdersHandler     *orders.Handler
	InvoicesHandler   *invoices.Handler
	PaymentsHandler   *payments.Handler
	CatalogHandler    *catalog.Handler
	SettingsHandler   *settings.Handler
	DocumentsHandler  *documents.Handler
	StatsHandler      *stats.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter assembles the HTTP surface.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/customers", params.CustomersHandler.MountRoutes)
		api.Route("/quotations", func(r chi.Router) {
			params.QuotationsHandler.MountRoutes(r)
			r.Post("/{id}/convert/sales-order", params.ConversionHandler.ToSalesOrder)
			r.Post("/{id}/convert/invoice", params.ConversionHandler.QuotationToInvoice)
			r.Get("/{id}/pdf", params.DocumentsHandler.QuotationPDF)
		})
		api.Route("/sales-orders", func(r chi.Router) {
			params.OrdersHandler.MountRoutes(r)
			r.Post("/{id}/convert/invoice", params.ConversionHandler.OrderToInvoice)
		})
		api.Route("/invoices", func(r chi.Router) {
			params.InvoicesHandler.MountRoutes(r)
			r.Get("/{id}/pdf", params.DocumentsHandler.InvoicePDF)
		})
		api.Route("/payments", func(r chi.Router) {
			params.PaymentsHandler.MountRoutes(r)
			r.Get("/{id}/pdf", params.DocumentsHandler.ReceiptPDF)
		})
		api.Route("/catalog", params.CatalogHandler.MountRoutes)
		api.Route("/settings", params.SettingsHandler.MountRoutes)
		api.Route("/stats", params.StatsHandler.MountRoutes)
		if params.JobHandler != nil {
			api.Route("/jobs", params.JobHandler.MountRoutes)
		}
	})

	return r
}
