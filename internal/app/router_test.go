package app

import (
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Urbanera/Quotation-sub001/internal/catalog"
	"github.com/Urbanera/Quotation-sub001/internal/conversion"
	"github.com/Urbanera/Quotation-sub001/internal/customers"
	"github.com/Urbanera/Quotation-sub001/internal/documents"
	"github.com/Urbanera/Quotation-sub001/internal/invoices"
	"github.com/Urbanera/Quotation-sub001/internal/orders"
	"github.com/Urbanera/Quotation-sub001/internal/payments"
	"github.com/Urbanera/Quotation-sub001/internal/quotations"
	"github.com/Urbanera/Quotation-sub001/internal/settings"
	"github.com/Urbanera/Quotation-sub001/internal/stats"
)

func newTestRouter(t *testing.T) chi.Routes {
	t.Helper()
	logger := slog.Default()

	h := NewRouter(RouterParams{
		Logger:            logger,
		Config:            &Config{},
		CustomersHandler:  customers.NewHandler(logger, nil),
		QuotationsHandler: quotations.NewHandler(logger, nil),
		ConversionHandler: conversion.NewHandler(logger, nil),
		OrdersHandler:     orders.NewHandler(logger, nil),
		InvoicesHandler:   invoices.NewHandler(logger, nil),
		PaymentsHandler:   payments.NewHandler(logger, nil),
		CatalogHandler:    catalog.NewHandler(logger, nil),
		SettingsHandler:   settings.NewHandler(logger, nil),
		DocumentsHandler:  documents.NewHandler(logger, nil),
		StatsHandler:      stats.NewHandler(logger, nil),
	})

	routes, ok := h.(chi.Routes)
	require.True(t, ok)
	return routes
}

func TestRouterMountsUnderVersionedPrefix(t *testing.T) {
	routes := newTestRouter(t)

	var patterns []string
	err := chi.Walk(routes, func(method, route string, handler http.Handler, mws ...func(http.Handler) http.Handler) error {
		patterns = append(patterns, route)
		return nil
	})
	require.NoError(t, err)

	for _, p := range patterns {
		if p == "/healthz" || p == "/metrics" {
			continue
		}
		assert.Truef(t, strings.HasPrefix(p, "/api/v1/"), "route %s outside versioned prefix", p)
	}
	assert.Contains(t, patterns, "/api/v1/quotations/{id}/convert/sales-order")
	assert.Contains(t, patterns, "/api/v1/sales-orders/{id}/convert/invoice")
}
