package jobs

import (
	"context"
	"fmt"

	"github.com/Urbanera/Quotation-sub001/internal/customers"
	"github.com/Urbanera/Quotation-sub001/internal/quotations"
)

// QuotationNotifier queues a quotation email when one is sent to the
// customer. Satisfies the quotation service's notifier dependency.
type QuotationNotifier struct {
	client       *Client
	customerRepo customers.Repository
}

func NewQuotationNotifier(client *Client, customerRepo customers.Repository) *QuotationNotifier {
	return &QuotationNotifier{client: client, customerRepo: customerRepo}
}

func (n *QuotationNotifier) QuotationSent(ctx context.Context, q *quotations.Quotation) error {
	customer, err := n.customerRepo.Get(ctx, q.CustomerID)
	if err != nil {
		return err
	}
	if customer.Email == nil {
		return nil
	}
	_, err = n.client.EnqueueSendEmail(ctx, SendEmailPayload{
		To:      *customer.Email,
		Subject: fmt.Sprintf("Quotation %s from your design team", q.DocNumber),
		Body:    fmt.Sprintf("Dear %s, your quotation %s is ready for review.", customer.Name, q.DocNumber),
	})
	return err
}
