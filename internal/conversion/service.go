package conversion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Urbanera/Quotation-sub001/internal/invoices"
	"github.com/Urbanera/Quotation-sub001/internal/orders"
	"github.com/Urbanera/Quotation-sub001/internal/quotations"
)

// Service performs the one-shot quotation conversions. Each conversion runs
// in a single transaction holding the quotation row lock, so two concurrent
// attempts serialise and the loser sees the winner's target document.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ToSalesOrder converts a quotation into a sales order. The quotation may be
// in any pre-conversion status; it is promoted through APPROVED and lands on
// CONVERTED. A second call fails with the first call's order id.
func (s *Service) ToSalesOrder(ctx context.Context, quotationID int64, ov SalesOrderOverrides) (*orders.SalesOrder, error) {
	var created *orders.SalesOrder

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		q, err := repo.LockQuotation(ctx, quotationID)
		if err != nil {
			return err
		}

		if existing, err := repo.FindSalesOrderID(ctx, quotationID); err != nil {
			return err
		} else if existing != nil {
			return &AlreadyConvertedError{Target: "sales_order", ExistingID: *existing}
		}
		if existing, err := repo.FindInvoiceID(ctx, quotationID); err != nil {
			return err
		} else if existing != nil {
			return &AlreadyConvertedError{Target: "invoice", ExistingID: *existing}
		}
		if q.Status == quotations.StatusConverted {
			// Conversion flag set but no target found: the schema's unique
			// constraints make this unreachable outside manual edits.
			return fmt.Errorf("quotation %d is CONVERTED with no target document", quotationID)
		}

		orderDate := time.Now()
		if ov.OrderDate != nil {
			orderDate = *ov.OrderDate
		}

		docNumber, err := repo.GenerateNumber(ctx, "SO", orderDate)
		if err != nil {
			return fmt.Errorf("generate doc number: %w", err)
		}

		created, err = repo.InsertSalesOrder(ctx, orders.SalesOrder{
			DocNumber:            docNumber,
			QuotationID:          quotationID,
			CustomerID:           q.CustomerID,
			OrderDate:            orderDate,
			ExpectedDeliveryDate: ov.ExpectedDeliveryDate,
			Status:               orders.StatusPending,
			TotalAmount:          q.FinalPrice,
			Notes:                ov.Notes,
		})
		if err != nil {
			return fmt.Errorf("insert sales order: %w", err)
		}

		if err := repo.SetQuotationStatus(ctx, quotationID, q.Status, quotations.StatusConverted); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quotation converted to sales order",
		slog.Int64("quotation_id", quotationID),
		slog.Int64("sales_order_id", created.ID),
		slog.String("doc_number", created.DocNumber))
	return created, nil
}

// QuotationToInvoice converts an approved quotation directly into an invoice.
func (s *Service) QuotationToInvoice(ctx context.Context, quotationID int64, ov InvoiceOverrides) (*invoices.Invoice, error) {
	var created *invoices.Invoice

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		q, err := repo.LockQuotation(ctx, quotationID)
		if err != nil {
			return err
		}

		if existing, err := repo.FindInvoiceID(ctx, quotationID); err != nil {
			return err
		} else if existing != nil {
			return &AlreadyConvertedError{Target: "invoice", ExistingID: *existing}
		}
		if q.Status != quotations.StatusApproved {
			return &NotApprovedError{Status: q.Status}
		}

		created, err = s.insertInvoice(ctx, repo, q, nil, q.FinalPrice, ov)
		if err != nil {
			return err
		}

		if err := repo.SetQuotationStatus(ctx, quotationID, q.Status, quotations.StatusConverted); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quotation converted to invoice",
		slog.Int64("quotation_id", quotationID),
		slog.Int64("invoice_id", created.ID),
		slog.String("doc_number", created.DocNumber))
	return created, nil
}

// OrderToInvoice invoices an existing sales order. The underlying quotation
// is already CONVERTED at this point; the order must not be cancelled and no
// invoice may exist yet.
func (s *Service) OrderToInvoice(ctx context.Context, salesOrderID int64, ov InvoiceOverrides) (*invoices.Invoice, error) {
	var created *invoices.Invoice

	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		order, err := repo.GetSalesOrder(ctx, salesOrderID)
		if err != nil {
			return err
		}
		if order.Status == orders.StatusCancelled {
			return &OrderCancelledError{SalesOrderID: order.ID}
		}

		q, err := repo.LockQuotation(ctx, order.QuotationID)
		if err != nil {
			return err
		}

		if existing, err := repo.FindInvoiceID(ctx, order.QuotationID); err != nil {
			return err
		} else if existing != nil {
			return &AlreadyConvertedError{Target: "invoice", ExistingID: *existing}
		}

		created, err = s.insertInvoice(ctx, repo, q, &order.ID, order.TotalAmount, ov)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sales order converted to invoice",
		slog.Int64("sales_order_id", salesOrderID),
		slog.Int64("invoice_id", created.ID),
		slog.String("doc_number", created.DocNumber))
	return created, nil
}

func (s *Service) insertInvoice(ctx context.Context, repo Repository, q *quotationLock, salesOrderID *int64, total float64, ov InvoiceOverrides) (*invoices.Invoice, error) {
	invoiceDate := time.Now()
	if ov.InvoiceDate != nil {
		invoiceDate = *ov.InvoiceDate
	}

	docNumber, err := repo.GenerateNumber(ctx, "INV", invoiceDate)
	if err != nil {
		return nil, fmt.Errorf("generate doc number: %w", err)
	}

	created, err := repo.InsertInvoice(ctx, invoices.Invoice{
		DocNumber:    docNumber,
		QuotationID:  q.ID,
		SalesOrderID: salesOrderID,
		CustomerID:   q.CustomerID,
		InvoiceDate:  invoiceDate,
		DueDate:      ov.DueDate,
		Status:       invoices.StatusPending,
		TotalAmount:  total,
		Notes:        ov.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("insert invoice: %w", err)
	}
	return created, nil
}
