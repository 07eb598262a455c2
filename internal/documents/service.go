package documents

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Urbanera/Quotation-sub001/internal/customers"
	"github.com/Urbanera/Quotation-sub001/internal/invoices"
	"github.com/Urbanera/Quotation-sub001/internal/payments"
	"github.com/Urbanera/Quotation-sub001/internal/quotations"
	"github.com/Urbanera/Quotation-sub001/internal/settings"
)

const dateLayout = "02 Jan 2006"

// Service renders printable quotation, invoice and receipt documents.
type Service struct {
	quoteRepo    quotations.Repository
	invoiceRepo  invoices.Repository
	paymentRepo  payments.Repository
	customerRepo customers.Repository
	settingsRepo settings.Repository
	pdf          *PDFClient
}

func NewService(
	quoteRepo quotations.Repository,
	invoiceRepo invoices.Repository,
	paymentRepo payments.Repository,
	customerRepo customers.Repository,
	settingsRepo settings.Repository,
	pdf *PDFClient,
) *Service {
	return &Service{
		quoteRepo:    quoteRepo,
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		settingsRepo: settingsRepo,
		pdf:          pdf,
	}
}

// Document is a rendered printable file ready to be served. MediaType is
// application/pdf normally and text/html when the render backend is down
// and the service fell back to the raw page.
type Document struct {
	Data      []byte
	Filename  string
	MediaType string
}

// QuotationPDF renders the full itemized quotation.
func (s *Service) QuotationPDF(ctx context.Context, quotationID int64) (*Document, error) {
	q, err := s.quoteRepo.Get(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.Get(ctx, q.CustomerID)
	if err != nil {
		return nil, err
	}
	conf, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	cur := conf.CurrencyCode
	view := quotationView{
		Company:              companyFromSettings(conf),
		DocNumber:            q.DocNumber,
		QuoteDate:            q.QuoteDate.Format(dateLayout),
		Status:               string(q.Status),
		CustomerName:         customer.Name,
		CustomerAddress:      deref(customer.Address),
		TotalSellingPrice:    FormatAmount(cur, q.TotalSellingPrice),
		TotalDiscountedPrice: FormatAmount(cur, q.TotalDiscountedPrice),
		GlobalDiscount:       q.GlobalDiscount,
		InstallationHandling: FormatAmount(cur, q.InstallationHandling),
		GSTPercentage:        q.GSTPercentage,
		GSTAmount:            FormatAmount(cur, q.GSTAmount),
		FinalPrice:           FormatAmount(cur, q.FinalPrice),
		Terms:                deref(q.Terms),
		Notes:                deref(q.Notes),
	}
	view.ValidUntil = q.ValidUntil.Format(dateLayout)
	for _, room := range q.Rooms {
		rv := roomView{
			Name:            room.Name,
			Description:     deref(room.Description),
			SellingPrice:    FormatAmount(cur, room.SellingPrice),
			DiscountedPrice: FormatAmount(cur, room.DiscountedPrice),
		}
		for _, p := range room.Products {
			rv.Products = append(rv.Products, lineView{
				Name:            p.Name,
				Description:     deref(p.Description),
				Quantity:        p.Quantity,
				SellingPrice:    FormatAmount(cur, p.SellingPrice),
				DiscountedPrice: FormatAmount(cur, p.DiscountedPrice),
			})
		}
		for _, a := range room.Accessories {
			rv.Accessories = append(rv.Accessories, lineView{
				Name:            a.Name,
				Quantity:        a.Quantity,
				SellingPrice:    FormatAmount(cur, a.SellingPrice),
				DiscountedPrice: FormatAmount(cur, a.DiscountedPrice),
			})
		}
		for _, c := range room.InstallationCharges {
			rv.InstallationCharges = append(rv.InstallationCharges, chargeView{
				Description: c.Description,
				Amount:      FormatAmount(cur, c.Amount),
			})
		}
		view.Rooms = append(view.Rooms, rv)
	}

	return s.renderDocument(ctx, "quotation.html", q.DocNumber, view)
}

// InvoicePDF renders the invoice summary document.
func (s *Service) InvoicePDF(ctx context.Context, invoiceID int64) (*Document, error) {
	inv, err := s.invoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.Get(ctx, inv.CustomerID)
	if err != nil {
		return nil, err
	}
	quotation, err := s.quoteRepo.GetHeader(ctx, inv.QuotationID)
	if err != nil {
		return nil, err
	}
	conf, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	cur := conf.CurrencyCode
	view := invoiceView{
		Company:         companyFromSettings(conf),
		DocNumber:       inv.DocNumber,
		InvoiceDate:     inv.InvoiceDate.Format(dateLayout),
		Status:          string(inv.Status),
		CustomerName:    customer.Name,
		CustomerAddress: deref(customer.Address),
		QuotationNumber: quotation.DocNumber,
		TotalAmount:     FormatAmount(cur, inv.TotalAmount),
		AmountPaid:      FormatAmount(cur, inv.AmountPaid),
		Balance:         FormatAmount(cur, inv.Balance()),
		Notes:           deref(inv.Notes),
	}
	if inv.DueDate != nil {
		view.DueDate = inv.DueDate.Format(dateLayout)
	}

	return s.renderDocument(ctx, "invoice.html", inv.DocNumber, view)
}

// ReceiptPDF renders the payment receipt document.
func (s *Service) ReceiptPDF(ctx context.Context, paymentID int64) (*Document, error) {
	p, err := s.paymentRepo.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.Get(ctx, p.CustomerID)
	if err != nil {
		return nil, err
	}
	conf, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	view := receiptView{
		Company:       companyFromSettings(conf),
		ReceiptNumber: p.ReceiptNumber,
		PaymentDate:   p.PaymentDate.Format(dateLayout),
		CustomerName:  customer.Name,
		Amount:        FormatAmount(conf.CurrencyCode, p.Amount),
		PaymentMethod: string(p.PaymentMethod),
		Reference:     deref(p.Reference),
		Notes:         deref(p.Notes),
	}
	if p.InvoiceID != nil {
		inv, err := s.invoiceRepo.Get(ctx, *p.InvoiceID)
		if err != nil {
			return nil, err
		}
		view.InvoiceNumber = inv.DocNumber
	}

	return s.renderDocument(ctx, "receipt.html", p.ReceiptNumber, view)
}

// renderDocument converts the rendered template into a PDF. When the PDF
// backend is unreachable it falls back to serving the HTML page itself so
// printing keeps working during an outage.
func (s *Service) renderDocument(ctx context.Context, templateName, docNumber string, view any) (*Document, error) {
	html, err := render(templateName, view)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}
	stem := fmt.Sprintf("%s-%s", strings.ToLower(docNumber), uuid.NewString()[:8])
	pdf, err := s.pdf.RenderHTML(ctx, html)
	if err != nil {
		return &Document{
			Data:      []byte(html),
			Filename:  stem + ".html",
			MediaType: "text/html; charset=utf-8",
		}, nil
	}
	return &Document{
		Data:      pdf,
		Filename:  stem + ".pdf",
		MediaType: "application/pdf",
	}, nil
}

func companyFromSettings(conf *settings.Settings) companyView {
	return companyView{
		Name:      conf.CompanyName,
		Address:   deref(conf.Address),
		Phone:     deref(conf.Phone),
		Email:     deref(conf.Email),
		GSTNumber: deref(conf.GSTNumber),
		LogoURL:   deref(conf.LogoURL),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
