package payments

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Urbanera/Quotation-sub001/internal/customers"
	"github.com/Urbanera/Quotation-sub001/internal/invoices"
)

type fakeRepository struct {
	payments map[int64]*CustomerPayment
	invoices map[int64]*invoices.Invoice
	nextID   int64
	seq      int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		payments: make(map[int64]*CustomerPayment),
		invoices: make(map[int64]*invoices.Invoice),
	}
}

func (f *fakeRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, f)
}

func (f *fakeRepository) Get(ctx context.Context, id int64) (*CustomerPayment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *p
	return &out, nil
}

func (f *fakeRepository) List(ctx context.Context, req ListPaymentsRequest) ([]PaymentWithDetails, int, error) {
	var out []PaymentWithDetails
	for _, p := range f.payments {
		if req.InvoiceID != nil && (p.InvoiceID == nil || *p.InvoiceID != *req.InvoiceID) {
			continue
		}
		out = append(out, PaymentWithDetails{CustomerPayment: *p})
	}
	return out, len(out), nil
}

func (f *fakeRepository) Insert(ctx context.Context, p CustomerPayment) (*CustomerPayment, error) {
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = time.Now()
	f.payments[p.ID] = &p
	return &p, nil
}

func (f *fakeRepository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	p, ok := f.payments[id]
	if !ok {
		return ErrNotFound
	}
	for col, v := range updates {
		switch col {
		case "payment_method":
			p.PaymentMethod = v.(PaymentMethod)
		case "reference":
			s := v.(string)
			p.Reference = &s
		case "notes":
			s := v.(string)
			p.Notes = &s
		}
	}
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := f.payments[id]; !ok {
		return ErrNotFound
	}
	delete(f.payments, id)
	return nil
}

func (f *fakeRepository) GenerateNumber(ctx context.Context, date time.Time) (string, error) {
	f.seq++
	return fmt.Sprintf("RCPT-%s-%04d", date.Format("200601"), f.seq), nil
}

func (f *fakeRepository) LockInvoice(ctx context.Context, invoiceID int64) (*invoices.Invoice, error) {
	inv, ok := f.invoices[invoiceID]
	if !ok {
		return nil, ErrInvoiceNotFound
	}
	out := *inv
	return &out, nil
}

func (f *fakeRepository) ApplyToInvoice(ctx context.Context, invoiceID int64, delta float64) error {
	inv, ok := f.invoices[invoiceID]
	if !ok {
		return ErrInvoiceNotFound
	}
	inv.AmountPaid += delta
	switch {
	case inv.AmountPaid >= inv.TotalAmount:
		inv.Status = invoices.StatusPaid
	case inv.AmountPaid > 0:
		inv.Status = invoices.StatusPartiallyPaid
	default:
		inv.Status = invoices.StatusPending
	}
	return nil
}

type stubCustomerRepo struct {
	known map[int64]bool
}

func (s *stubCustomerRepo) WithTx(ctx context.Context, fn func(context.Context, customers.Repository) error) error {
	return fn(ctx, s)
}

func (s *stubCustomerRepo) Get(ctx context.Context, id int64) (*customers.Customer, error) {
	if !s.known[id] {
		return nil, customers.ErrNotFound
	}
	return &customers.Customer{ID: id, Name: "Asha Verma"}, nil
}

func (s *stubCustomerRepo) List(ctx context.Context, req customers.ListCustomersRequest) ([]customers.Customer, int, error) {
	return nil, 0, nil
}

func (s *stubCustomerRepo) Create(ctx context.Context, c customers.Customer) (int64, error) {
	return 0, nil
}

func (s *stubCustomerRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	return nil
}

func (s *stubCustomerRepo) UpdateStage(ctx context.Context, id int64, stage customers.Stage) error {
	return nil
}

func (s *stubCustomerRepo) CountQuotations(ctx context.Context, id int64) (int, error) {
	return 0, nil
}

func (s *stubCustomerRepo) Delete(ctx context.Context, id int64) error { return nil }

func (s *stubCustomerRepo) InsertFollowUp(ctx context.Context, f customers.FollowUp) (int64, error) {
	return 0, nil
}

func (s *stubCustomerRepo) ListFollowUps(ctx context.Context, customerID int64) ([]customers.FollowUp, error) {
	return nil, nil
}

func (s *stubCustomerRepo) ListDueFollowUps(ctx context.Context) ([]customers.FollowUp, error) {
	return nil, nil
}

func (s *stubCustomerRepo) CompleteFollowUp(ctx context.Context, id int64) error { return nil }

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	custRepo := &stubCustomerRepo{known: map[int64]bool{1: true}}
	return NewService(repo, custRepo, slog.Default()), repo
}

func seedInvoice(repo *fakeRepository, customerID int64, total, paid float64) int64 {
	repo.nextID++
	id := repo.nextID
	status := invoices.StatusPending
	if paid > 0 {
		status = invoices.StatusPartiallyPaid
	}
	repo.invoices[id] = &invoices.Invoice{
		ID:          id,
		DocNumber:   fmt.Sprintf("INV-202408-%04d", id),
		CustomerID:  customerID,
		Status:      status,
		TotalAmount: total,
		AmountPaid:  paid,
	}
	return id
}

func TestCreatePaymentAgainstInvoice(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	invID := seedInvoice(repo, 1, 10000, 0)

	p, err := svc.Create(ctx, CreatePaymentRequest{
		CustomerID:    1,
		InvoiceID:     &invID,
		Amount:        4000,
		PaymentMethod: MethodUPI,
	})
	require.NoError(t, err)

	assert.Contains(t, p.ReceiptNumber, "RCPT-")
	assert.InDelta(t, 4000.0, repo.invoices[invID].AmountPaid, 1e-9)
	assert.Equal(t, invoices.StatusPartiallyPaid, repo.invoices[invID].Status)
}

func TestCreatePaymentSettlesInvoice(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	invID := seedInvoice(repo, 1, 10000, 6000)

	_, err := svc.Create(ctx, CreatePaymentRequest{
		CustomerID:    1,
		InvoiceID:     &invID,
		Amount:        4000,
		PaymentMethod: MethodBankTransfer,
	})
	require.NoError(t, err)

	assert.Equal(t, invoices.StatusPaid, repo.invoices[invID].Status)
	assert.InDelta(t, 10000.0, repo.invoices[invID].AmountPaid, 1e-9)
}

func TestCreatePaymentExceedsBalance(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	invID := seedInvoice(repo, 1, 10000, 6000)

	_, err := svc.Create(ctx, CreatePaymentRequest{
		CustomerID:    1,
		InvoiceID:     &invID,
		Amount:        4001,
		PaymentMethod: MethodCash,
	})
	require.ErrorIs(t, err, ErrExceedsBalance)

	assert.Empty(t, repo.payments, "no receipt on rejected payment")
	assert.InDelta(t, 6000.0, repo.invoices[invID].AmountPaid, 1e-9)
}

func TestCreatePaymentClosedInvoice(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	paidID := seedInvoice(repo, 1, 5000, 5000)
	repo.invoices[paidID].Status = invoices.StatusPaid
	cancelledID := seedInvoice(repo, 1, 5000, 0)
	repo.invoices[cancelledID].Status = invoices.StatusCancelled

	for _, invID := range []int64{paidID, cancelledID} {
		id := invID
		_, err := svc.Create(ctx, CreatePaymentRequest{
			CustomerID:    1,
			InvoiceID:     &id,
			Amount:        100,
			PaymentMethod: MethodCash,
		})
		require.ErrorIs(t, err, ErrInvoiceClosed)
	}
}

func TestCreatePaymentWrongCustomer(t *testing.T) {
	svc, repo := newTestService()
	invID := seedInvoice(repo, 2, 5000, 0)

	_, err := svc.Create(context.Background(), CreatePaymentRequest{
		CustomerID:    1,
		InvoiceID:     &invID,
		Amount:        100,
		PaymentMethod: MethodCard,
	})
	require.ErrorIs(t, err, ErrWrongCustomer)
}

func TestCreatePaymentUnknownCustomer(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), CreatePaymentRequest{
		CustomerID:    42,
		Amount:        100,
		PaymentMethod: MethodCash,
	})
	require.ErrorIs(t, err, customers.ErrNotFound)
}

func TestCreateOnAccountPayment(t *testing.T) {
	svc, repo := newTestService()

	p, err := svc.Create(context.Background(), CreatePaymentRequest{
		CustomerID:    1,
		Amount:        2500,
		PaymentMethod: MethodCheque,
	})
	require.NoError(t, err)

	assert.Nil(t, p.InvoiceID)
	assert.Len(t, repo.payments, 1)
}

func TestDeletePaymentReversesInvoice(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	invID := seedInvoice(repo, 1, 10000, 0)

	p, err := svc.Create(ctx, CreatePaymentRequest{
		CustomerID:    1,
		InvoiceID:     &invID,
		Amount:        10000,
		PaymentMethod: MethodBankTransfer,
	})
	require.NoError(t, err)
	require.Equal(t, invoices.StatusPaid, repo.invoices[invID].Status)

	require.NoError(t, svc.Delete(ctx, p.ID))

	assert.Empty(t, repo.payments)
	assert.Zero(t, repo.invoices[invID].AmountPaid)
	assert.Equal(t, invoices.StatusPending, repo.invoices[invID].Status)
}

func TestUpdatePaymentAnnotations(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	invID := seedInvoice(repo, 1, 10000, 0)

	p, err := svc.Create(ctx, CreatePaymentRequest{
		CustomerID:    1,
		InvoiceID:     &invID,
		Amount:        4000,
		PaymentMethod: MethodCash,
	})
	require.NoError(t, err)

	method := MethodCheque
	ref := "CHQ-004512"
	updated, err := svc.Update(ctx, p.ID, UpdatePaymentRequest{
		PaymentMethod: &method,
		Reference:     &ref,
	})
	require.NoError(t, err)

	assert.Equal(t, MethodCheque, updated.PaymentMethod)
	require.NotNil(t, updated.Reference)
	assert.Equal(t, "CHQ-004512", *updated.Reference)
	assert.Equal(t, 4000.0, updated.Amount)
	assert.Equal(t, 4000.0, repo.invoices[invID].AmountPaid)
}

func TestUpdatePaymentNotFound(t *testing.T) {
	svc, _ := newTestService()

	notes := "misapplied"
	_, err := svc.Update(context.Background(), 99, UpdatePaymentRequest{Notes: &notes})
	assert.ErrorIs(t, err, ErrNotFound)
}
