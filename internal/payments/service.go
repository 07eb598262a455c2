package payments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Urbanera/Quotation-sub001/internal/customers"
	"github.com/Urbanera/Quotation-sub001/internal/invoices"
)

var (
	ErrExceedsBalance = errors.New("payment exceeds invoice balance")
	ErrInvoiceClosed  = errors.New("invoice does not accept payments")
	ErrWrongCustomer  = errors.New("invoice belongs to a different customer")
)

type Service struct {
	repo         Repository
	customerRepo customers.Repository
	logger       *slog.Logger
}

func NewService(repo Repository, customerRepo customers.Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, customerRepo: customerRepo, logger: logger}
}

// Create records a receipt. When tied to an invoice, the receipt and the
// invoice balance update commit in one transaction under the invoice row
// lock.
func (s *Service) Create(ctx context.Context, req CreatePaymentRequest) (*CustomerPayment, error) {
	if _, err := s.customerRepo.Get(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("verify customer: %w", err)
	}

	paymentDate := time.Now()
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	var created *CustomerPayment
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if req.InvoiceID != nil {
			inv, err := repo.LockInvoice(ctx, *req.InvoiceID)
			if err != nil {
				return err
			}
			if inv.CustomerID != req.CustomerID {
				return ErrWrongCustomer
			}
			if inv.Status == invoices.StatusCancelled || inv.Status == invoices.StatusPaid {
				return fmt.Errorf("%w: %s is %s", ErrInvoiceClosed, inv.DocNumber, inv.Status)
			}
			if req.Amount > inv.Balance() {
				return fmt.Errorf("%w: balance is %.2f", ErrExceedsBalance, inv.Balance())
			}
		}

		receiptNumber, err := repo.GenerateNumber(ctx, paymentDate)
		if err != nil {
			return fmt.Errorf("generate receipt number: %w", err)
		}

		created, err = repo.Insert(ctx, CustomerPayment{
			ReceiptNumber: receiptNumber,
			CustomerID:    req.CustomerID,
			InvoiceID:     req.InvoiceID,
			Amount:        req.Amount,
			PaymentMethod: req.PaymentMethod,
			PaymentDate:   paymentDate,
			Reference:     req.Reference,
			Notes:         req.Notes,
		})
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		if req.InvoiceID != nil {
			if err := repo.ApplyToInvoice(ctx, *req.InvoiceID, req.Amount); err != nil {
				return fmt.Errorf("apply to invoice: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		slog.String("receipt_number", created.ReceiptNumber),
		slog.Int64("customer_id", created.CustomerID),
		slog.Float64("amount", created.Amount))
	return created, nil
}

// Delete is an administrative correction: it removes the receipt and backs
// its amount out of the invoice balance.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		p, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		if p.InvoiceID != nil {
			if _, err := repo.LockInvoice(ctx, *p.InvoiceID); err != nil {
				return err
			}
			if err := repo.ApplyToInvoice(ctx, *p.InvoiceID, -p.Amount); err != nil {
				return fmt.Errorf("reverse invoice amount: %w", err)
			}
		}
		return repo.Delete(ctx, id)
	})
}

// Update amends the annotation fields of an existing receipt. The amount,
// customer and invoice link never change after creation.
func (s *Service) Update(ctx context.Context, id int64, req UpdatePaymentRequest) (*CustomerPayment, error) {
	updates := map[string]interface{}{}
	if req.PaymentMethod != nil {
		updates["payment_method"] = *req.PaymentMethod
	}
	if req.Reference != nil {
		updates["reference"] = *req.Reference
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*CustomerPayment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListPaymentsRequest) ([]PaymentWithDetails, int, error) {
	if req.Limit == 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}
