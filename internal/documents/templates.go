package documents

import (
	"bytes"
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var tmpl = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// companyView is the letterhead shared by all printable documents.
type companyView struct {
	Name      string
	Address   string
	Phone     string
	Email     string
	GSTNumber string
	LogoURL   string
}

type lineView struct {
	Name            string
	Description     string
	Quantity        float64
	SellingPrice    string
	DiscountedPrice string
}

type roomView struct {
	Name                string
	Description         string
	Products            []lineView
	Accessories         []lineView
	InstallationCharges []chargeView
	SellingPrice        string
	DiscountedPrice     string
}

type chargeView struct {
	Description string
	Amount      string
}

type quotationView struct {
	Company              companyView
	DocNumber            string
	QuoteDate            string
	ValidUntil           string
	Status               string
	CustomerName         string
	CustomerAddress      string
	Rooms                []roomView
	TotalSellingPrice    string
	TotalDiscountedPrice string
	GlobalDiscount       float64
	InstallationHandling string
	GSTPercentage        float64
	GSTAmount            string
	FinalPrice           string
	Terms                string
	Notes                string
}

type invoiceView struct {
	Company         companyView
	DocNumber       string
	InvoiceDate     string
	DueDate         string
	Status          string
	CustomerName    string
	CustomerAddress string
	QuotationNumber string
	TotalAmount     string
	AmountPaid      string
	Balance         string
	Notes           string
}

type receiptView struct {
	Company       companyView
	ReceiptNumber string
	PaymentDate   string
	CustomerName  string
	InvoiceNumber string
	Amount        string
	PaymentMethod string
	Reference     string
	Notes         string
}
