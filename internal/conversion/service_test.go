package conversion

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Urbanera/Quotation-sub001/internal/invoices"
	"github.com/Urbanera/Quotation-sub001/internal/orders"
	"github.com/Urbanera/Quotation-sub001/internal/quotations"
)

type fakeRepository struct {
	quotations map[int64]*quotationLock
	orders     map[int64]*orders.SalesOrder
	invoices   map[int64]*invoices.Invoice
	nextID     int64
	seq        int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		quotations: make(map[int64]*quotationLock),
		orders:     make(map[int64]*orders.SalesOrder),
		invoices:   make(map[int64]*invoices.Invoice),
	}
}

func (f *fakeRepository) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, f)
}

func (f *fakeRepository) LockQuotation(ctx context.Context, id int64) (*quotationLock, error) {
	q, ok := f.quotations[id]
	if !ok {
		return nil, ErrQuotationNotFound
	}
	out := *q
	return &out, nil
}

func (f *fakeRepository) GetSalesOrder(ctx context.Context, id int64) (*orders.SalesOrder, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, ErrSalesOrderNotFound
	}
	out := *o
	return &out, nil
}

func (f *fakeRepository) FindSalesOrderID(ctx context.Context, quotationID int64) (*int64, error) {
	for _, o := range f.orders {
		if o.QuotationID == quotationID {
			id := o.ID
			return &id, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) FindInvoiceID(ctx context.Context, quotationID int64) (*int64, error) {
	for _, inv := range f.invoices {
		if inv.QuotationID == quotationID {
			id := inv.ID
			return &id, nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) InsertSalesOrder(ctx context.Context, o orders.SalesOrder) (*orders.SalesOrder, error) {
	o.ID = f.id()
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	f.orders[o.ID] = &o
	return &o, nil
}

func (f *fakeRepository) InsertInvoice(ctx context.Context, inv invoices.Invoice) (*invoices.Invoice, error) {
	inv.ID = f.id()
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	f.invoices[inv.ID] = &inv
	return &inv, nil
}

func (f *fakeRepository) SetQuotationStatus(ctx context.Context, id int64, from, to quotations.QuotationStatus) error {
	q, ok := f.quotations[id]
	if !ok {
		return ErrQuotationNotFound
	}
	if q.Status != from {
		return errStatusChanged
	}
	q.Status = to
	return nil
}

func (f *fakeRepository) GenerateNumber(ctx context.Context, docType string, date time.Time) (string, error) {
	f.seq++
	return fmt.Sprintf("%s-%s-%04d", docType, date.Format("200601"), f.seq), nil
}

func newTestService() (*Service, *fakeRepository) {
	repo := newFakeRepository()
	return NewService(repo, slog.Default()), repo
}

func seedQuotation(repo *fakeRepository, status quotations.QuotationStatus) int64 {
	id := repo.id()
	repo.quotations[id] = &quotationLock{
		ID:         id,
		DocNumber:  fmt.Sprintf("QT-202408-%04d", id),
		CustomerID: 7,
		Status:     status,
		FinalPrice: 11210,
	}
	return id
}

func TestToSalesOrder(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	qid := seedQuotation(repo, quotations.StatusApproved)

	order, err := svc.ToSalesOrder(ctx, qid, SalesOrderOverrides{})
	require.NoError(t, err)

	assert.Equal(t, orders.StatusPending, order.Status)
	assert.Equal(t, qid, order.QuotationID)
	assert.Equal(t, int64(7), order.CustomerID)
	assert.InDelta(t, 11210.0, order.TotalAmount, 1e-9)
	assert.Contains(t, order.DocNumber, "SO-")
	assert.Equal(t, quotations.StatusConverted, repo.quotations[qid].Status)
}

func TestToSalesOrderFromDraft(t *testing.T) {
	svc, repo := newTestService()
	qid := seedQuotation(repo, quotations.StatusDraft)

	_, err := svc.ToSalesOrder(context.Background(), qid, SalesOrderOverrides{})
	require.NoError(t, err)

	assert.Equal(t, quotations.StatusConverted, repo.quotations[qid].Status)
}

func TestToSalesOrderTwiceReturnsExisting(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	qid := seedQuotation(repo, quotations.StatusApproved)

	first, err := svc.ToSalesOrder(ctx, qid, SalesOrderOverrides{})
	require.NoError(t, err)

	_, err = svc.ToSalesOrder(ctx, qid, SalesOrderOverrides{})
	var aerr *AlreadyConvertedError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "sales_order", aerr.Target)
	assert.Equal(t, first.ID, aerr.ExistingID)
	assert.Len(t, repo.orders, 1)
	assert.Equal(t, quotations.StatusConverted, repo.quotations[qid].Status)
}

func TestToSalesOrderAfterInvoice(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	qid := seedQuotation(repo, quotations.StatusApproved)

	inv, err := svc.QuotationToInvoice(ctx, qid, InvoiceOverrides{})
	require.NoError(t, err)

	_, err = svc.ToSalesOrder(ctx, qid, SalesOrderOverrides{})
	var aerr *AlreadyConvertedError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "invoice", aerr.Target)
	assert.Equal(t, inv.ID, aerr.ExistingID)
}

func TestToSalesOrderUnknownQuotation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ToSalesOrder(context.Background(), 404, SalesOrderOverrides{})
	require.ErrorIs(t, err, ErrQuotationNotFound)
}

func TestQuotationToInvoice(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	qid := seedQuotation(repo, quotations.StatusApproved)

	inv, err := svc.QuotationToInvoice(ctx, qid, InvoiceOverrides{})
	require.NoError(t, err)

	assert.Equal(t, invoices.StatusPending, inv.Status)
	assert.Equal(t, qid, inv.QuotationID)
	assert.Nil(t, inv.SalesOrderID)
	assert.InDelta(t, 11210.0, inv.TotalAmount, 1e-9)
	assert.Zero(t, inv.AmountPaid)
	assert.Contains(t, inv.DocNumber, "INV-")
	assert.Equal(t, quotations.StatusConverted, repo.quotations[qid].Status)
}

func TestQuotationToInvoiceRequiresApproval(t *testing.T) {
	for _, status := range []quotations.QuotationStatus{
		quotations.StatusDraft, quotations.StatusSaved, quotations.StatusSent,
		quotations.StatusRejected, quotations.StatusExpired,
	} {
		svc, repo := newTestService()
		qid := seedQuotation(repo, status)

		_, err := svc.QuotationToInvoice(context.Background(), qid, InvoiceOverrides{})
		var nerr *NotApprovedError
		require.ErrorAs(t, err, &nerr, "status %s", status)
		assert.Equal(t, status, nerr.Status)
		assert.Empty(t, repo.invoices)
		assert.Equal(t, status, repo.quotations[qid].Status)
	}
}

func TestOrderToInvoice(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	qid := seedQuotation(repo, quotations.StatusApproved)

	order, err := svc.ToSalesOrder(ctx, qid, SalesOrderOverrides{})
	require.NoError(t, err)

	inv, err := svc.OrderToInvoice(ctx, order.ID, InvoiceOverrides{})
	require.NoError(t, err)

	require.NotNil(t, inv.SalesOrderID)
	assert.Equal(t, order.ID, *inv.SalesOrderID)
	assert.Equal(t, qid, inv.QuotationID)
	assert.InDelta(t, order.TotalAmount, inv.TotalAmount, 1e-9)
	assert.Equal(t, quotations.StatusConverted, repo.quotations[qid].Status)
}

func TestOrderToInvoiceTwice(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	qid := seedQuotation(repo, quotations.StatusApproved)

	order, err := svc.ToSalesOrder(ctx, qid, SalesOrderOverrides{})
	require.NoError(t, err)
	first, err := svc.OrderToInvoice(ctx, order.ID, InvoiceOverrides{})
	require.NoError(t, err)

	_, err = svc.OrderToInvoice(ctx, order.ID, InvoiceOverrides{})
	var aerr *AlreadyConvertedError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "invoice", aerr.Target)
	assert.Equal(t, first.ID, aerr.ExistingID)
	assert.Len(t, repo.invoices, 1)
}

func TestOrderToInvoiceCancelledOrder(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	qid := seedQuotation(repo, quotations.StatusApproved)

	order, err := svc.ToSalesOrder(ctx, qid, SalesOrderOverrides{})
	require.NoError(t, err)
	repo.orders[order.ID].Status = orders.StatusCancelled

	_, err = svc.OrderToInvoice(ctx, order.ID, InvoiceOverrides{})
	var cerr *OrderCancelledError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, order.ID, cerr.SalesOrderID)
	assert.Empty(t, repo.invoices)
}

func TestOrderToInvoiceUnknownOrder(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.OrderToInvoice(context.Background(), 404, InvoiceOverrides{})
	require.ErrorIs(t, err, ErrSalesOrderNotFound)
}

func TestConversionOverrides(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	qid := seedQuotation(repo, quotations.StatusApproved)

	orderDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	delivery := orderDate.AddDate(0, 0, 21)
	notes := "phase one delivery"

	order, err := svc.ToSalesOrder(ctx, qid, SalesOrderOverrides{
		OrderDate:            &orderDate,
		ExpectedDeliveryDate: &delivery,
		Notes:                &notes,
	})
	require.NoError(t, err)

	assert.True(t, order.OrderDate.Equal(orderDate))
	require.NotNil(t, order.ExpectedDeliveryDate)
	assert.True(t, order.ExpectedDeliveryDate.Equal(delivery))
	require.NotNil(t, order.Notes)
	assert.Equal(t, notes, *order.Notes)
	assert.Contains(t, order.DocNumber, "SO-202608-")
}
