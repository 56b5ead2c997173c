// Package document renders invoices and receipts as fixed-layout A4 PDF documents.
package document

import (
	"github.com/shopspring/decimal"
)

// Kind identifies the document variant being rendered.
type Kind string

const (
	KindInvoice Kind = "invoice"
	KindReceipt Kind = "receipt"
)

// Currency is the suffix appended to every rendered amount.
const Currency = "AUD"

// DefaultAccentColor is used when a request carries no accent colour.
const DefaultAccentColor = "#2b5797"

// LineItem is a single billed line.
type LineItem struct {
	Quantity    int64
	Description string
	UnitPrice   decimal.Decimal
}

// LineTotal returns Quantity × UnitPrice.
func (li LineItem) LineTotal() decimal.Decimal {
	return decimal.NewFromInt(li.Quantity).Mul(li.UnitPrice)
}

// Subtotal sums the line totals of items.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

// Customer is the render-facing view of a customer.
type Customer struct {
	Name         string
	TaxID        string
	AddressLine1 string
	AddressLine2 string
}

// InvoiceMeta carries the document number, date and variant.
type InvoiceMeta struct {
	Number string
	Date   string
	Kind   Kind
	// TotalPaid is recorded on receipts for reference only. The rendered
	// TOTAL PAID figure is always recomputed from the line items.
	TotalPaid decimal.Decimal
}

// BankAccount holds bank transfer details. Empty fields are rendered as empty strings.
type BankAccount struct {
	Name          string
	RoutingCode   string
	AccountNumber string
}

// SenderProfile identifies the business issuing the document.
type SenderProfile struct {
	TaxID string `yaml:"tax_id"`
	Phone string `yaml:"phone"`
	Email string `yaml:"email"`
}

// RenderRequest is everything the composer needs for one document.
type RenderRequest struct {
	Sender   SenderProfile
	Customer Customer
	Meta     InvoiceMeta
	Items    []LineItem
	// ExplicitBank is the account chosen for this document, if any.
	ExplicitBank *BankAccount
	// StoredBank holds the persisted tiers consulted beneath ExplicitBank.
	StoredBank  BankSources
	IncludeLogo bool
	AccentColor string
}

// BankSources are the stored bank tiers, both optional.
type BankSources struct {
	Default *BankAccount
	Legacy  *BankAccount
}

// ResolvedBank merges the request's bank tiers, see ResolveBank.
func (r RenderRequest) ResolvedBank() BankAccount {
	return ResolveBank(r.ExplicitBank, r.StoredBank.Default, r.StoredBank.Legacy)
}

// FormatAmount renders d with exactly two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatMoney renders d as "$12.00 AUD".
func FormatMoney(d decimal.Decimal) string {
	return "$" + FormatAmount(d) + " " + Currency
}

// FormatTotal renders d as "$ 12.00 AUD", used for the emphasised totals.
func FormatTotal(d decimal.Decimal) string {
	return "$ " + FormatAmount(d) + " " + Currency
}
