// Package billing orchestrates invoice creation, payment tracking and document rendering.
package billing

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pigeonworks-llc/bookkeeper/pkg/archive"
	"github.com/pigeonworks-llc/bookkeeper/pkg/db"
	"github.com/pigeonworks-llc/bookkeeper/pkg/document"
)

// DateLayout is the dd/mm/yyyy format used for invoice dates.
const DateLayout = "02/01/2006"

var (
	// ErrNoLineItems is returned when an invoice would be created without items.
	ErrNoLineItems = errors.New("invoice has no line items")
	// ErrInvalidLineItem is returned for a negative quantity or price.
	ErrInvalidLineItem = errors.New("invalid line item")
)

// Renderer produces a PDF document for a request.
type Renderer interface {
	RenderBytes(req document.RenderRequest) ([]byte, error)
}

// Service ties the stores, the renderer and the document archive together.
type Service struct {
	conn        *db.Connection
	renderer    Renderer
	archive     archive.Repository
	sender      document.SenderProfile
	accentColor string
	includeLogo bool
	logger      *zap.Logger
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithSender sets the profile printed in document headers.
func WithSender(sender document.SenderProfile) Option {
	return func(s *Service) {
		s.sender = sender
	}
}

// WithAccentColor sets the table band colour.
func WithAccentColor(hex string) Option {
	return func(s *Service) {
		s.accentColor = hex
	}
}

// WithLogo enables or disables the header logo.
func WithLogo(enabled bool) Option {
	return func(s *Service) {
		s.includeLogo = enabled
	}
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for default invoice dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new Service.
func NewService(conn *db.Connection, renderer Renderer, repo archive.Repository, opts ...Option) *Service {
	s := &Service{
		conn:        conn,
		renderer:    renderer,
		archive:     repo,
		accentColor: document.DefaultAccentColor,
		includeLogo: true,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInvoiceRequest describes a new invoice.
type CreateInvoiceRequest struct {
	CustomerID int64
	// Date defaults to today in dd/mm/yyyy.
	Date  string
	Items []document.LineItem
	// AccountID selects a payment account. Zero means the default account.
	AccountID int64
}

// CreateInvoice numbers, stores and renders a new invoice.
// The rows, the customer's counter and the rendered file succeed or fail together.
func (s *Service) CreateInvoice(req CreateInvoiceRequest) (*db.Invoice, error) {
	if err := validateItems(req.Items); err != nil {
		return nil, err
	}

	date := req.Date
	if date == "" {
		date = s.now().Format(DateLayout)
	}

	var created db.Invoice
	err := s.conn.Transaction(func(tx *sql.Tx) error {
		customer, err := db.NewCustomerStore(tx).Get(req.CustomerID)
		if err != nil {
			return err
		}

		explicit, sources, err := s.bankTiers(tx, req.AccountID)
		if err != nil {
			return err
		}

		renderReq := document.RenderRequest{
			Sender:       s.sender,
			Customer:     toDocumentCustomer(customer),
			Meta:         document.InvoiceMeta{Number: FormatInvoiceNumber(customer.NextInvoiceNumber), Date: date, Kind: document.KindInvoice},
			Items:        req.Items,
			ExplicitBank: explicit,
			StoredBank:   sources,
			IncludeLogo:  s.includeLogo,
			AccentColor:  s.accentColor,
		}
		bank := renderReq.ResolvedBank()

		created = db.Invoice{
			CustomerID:    customer.ID,
			CustomerName:  customer.Name,
			InvoiceNumber: renderReq.Meta.Number,
			Date:          date,
			Status:        db.StatusUnpaid,
			Total:         document.Subtotal(req.Items),
			BankName:      bank.Name,
			BankBSB:       bank.RoutingCode,
			BankAcc:       bank.AccountNumber,
		}

		invoices := db.NewInvoiceStore(tx)
		id, err := invoices.Create(created)
		if err != nil {
			return err
		}
		created.ID = id

		for _, item := range req.Items {
			if err := invoices.AddLineItem(db.LineItem{
				InvoiceID:   id,
				Quantity:    item.Quantity,
				Description: item.Description,
				Price:       item.UnitPrice,
			}); err != nil {
				return err
			}
		}

		if err := db.NewCustomerStore(tx).IncrementInvoiceNumber(customer.ID); err != nil {
			return err
		}

		path, err := s.render(customer.ID, renderReq)
		if err != nil {
			return err
		}
		created.PDFPath = path

		return invoices.UpdatePDFPath(id, path)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.logger.Info("Invoice created",
		zap.Int64("id", created.ID),
		zap.String("number", created.InvoiceNumber),
		zap.String("customer", created.CustomerName),
		zap.String("total", document.FormatAmount(created.Total)),
		zap.String("path", created.PDFPath))

	return &created, nil
}

// ListInvoices returns all invoices, newest first.
func (s *Service) ListInvoices() ([]db.Invoice, error) {
	return db.NewInvoiceStore(s.conn).List()
}

// TogglePaid flips an invoice between unpaid and paid.
// Marking an invoice paid renders its receipt. It returns the new status and
// the receipt path, which is empty when the invoice became unpaid.
func (s *Service) TogglePaid(id int64) (db.InvoiceStatus, string, error) {
	var status db.InvoiceStatus
	var receiptPath string

	err := s.conn.Transaction(func(tx *sql.Tx) error {
		invoices := db.NewInvoiceStore(tx)
		inv, err := invoices.Get(id)
		if err != nil {
			return err
		}

		status = inv.Status.Toggled()
		if err := invoices.UpdateStatus(id, status); err != nil {
			return err
		}
		if status != db.StatusPaid {
			return nil
		}

		req, err := s.storedRequest(tx, inv, document.KindReceipt)
		if err != nil {
			return err
		}
		receiptPath, err = s.render(inv.CustomerID, req)
		return err
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to toggle invoice %d: %w", id, err)
	}

	s.logger.Info("Invoice status changed", zap.Int64("id", id), zap.String("status", string(status)))
	return status, receiptPath, nil
}

// Rerender renders the documents of a stored invoice again from its rows and
// bank snapshot. Paid invoices also get their receipt. It returns the written paths.
func (s *Service) Rerender(id int64) ([]string, error) {
	invoices := db.NewInvoiceStore(s.conn)
	inv, err := invoices.Get(id)
	if err != nil {
		return nil, err
	}

	kinds := []document.Kind{document.KindInvoice}
	if inv.Status == db.StatusPaid {
		kinds = append(kinds, document.KindReceipt)
	}

	var paths []string
	for _, kind := range kinds {
		req, err := s.storedRequest(s.conn, inv, kind)
		if err != nil {
			return paths, err
		}
		path, err := s.render(inv.CustomerID, req)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	if inv.PDFPath != paths[0] {
		if err := invoices.UpdatePDFPath(id, paths[0]); err != nil {
			return paths, err
		}
	}

	return paths, nil
}

// DeleteInvoice removes an invoice, its line items and its rendered documents.
// It returns the removed document paths.
func (s *Service) DeleteInvoice(id int64) ([]string, error) {
	var ref archive.Ref
	err := s.conn.Transaction(func(tx *sql.Tx) error {
		invoices := db.NewInvoiceStore(tx)
		inv, err := invoices.Get(id)
		if err != nil {
			return err
		}
		ref = archive.Ref{CustomerID: inv.CustomerID, Number: inv.InvoiceNumber}
		return invoices.Delete(id)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete invoice %d: %w", id, err)
	}

	removed, err := s.archive.Remove(ref)
	if err != nil {
		return removed, err
	}

	s.logger.Info("Invoice deleted", zap.Int64("id", id), zap.String("number", ref.Number), zap.Int("files", len(removed)))
	return removed, nil
}

// RenderRequest rebuilds the request for a stored invoice so it can be
// rendered to an arbitrary destination.
func (s *Service) RenderRequest(id int64, kind document.Kind) (document.RenderRequest, error) {
	inv, err := db.NewInvoiceStore(s.conn).Get(id)
	if err != nil {
		return document.RenderRequest{}, err
	}
	return s.storedRequest(s.conn, inv, kind)
}

// FormatInvoiceNumber zero-pads n to four digits.
func FormatInvoiceNumber(n int64) string {
	return fmt.Sprintf("%04d", n)
}

func validateItems(items []document.LineItem) error {
	if len(items) == 0 {
		return ErrNoLineItems
	}
	for i, item := range items {
		if item.Quantity < 0 {
			return fmt.Errorf("%w: line %d has negative quantity %d", ErrInvalidLineItem, i+1, item.Quantity)
		}
		if item.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: line %d has negative price %s", ErrInvalidLineItem, i+1, item.UnitPrice)
		}
	}
	return nil
}

// storedRequest rebuilds a render request from an invoice's rows. The bank
// snapshot taken at creation is used as the explicit tier.
func (s *Service) storedRequest(q db.Querier, inv *db.Invoice, kind document.Kind) (document.RenderRequest, error) {
	customer, err := db.NewCustomerStore(q).Get(inv.CustomerID)
	if err != nil {
		return document.RenderRequest{}, err
	}

	rows, err := db.NewInvoiceStore(q).Items(inv.ID)
	if err != nil {
		return document.RenderRequest{}, err
	}
	if len(rows) == 0 {
		return document.RenderRequest{}, fmt.Errorf("invoice %s: %w", inv.InvoiceNumber, ErrNoLineItems)
	}

	items := make([]document.LineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, document.LineItem{
			Quantity:    row.Quantity,
			Description: row.Description,
			UnitPrice:   row.Price,
		})
	}

	return document.RenderRequest{
		Sender:   s.sender,
		Customer: toDocumentCustomer(customer),
		Meta: document.InvoiceMeta{
			Number:    inv.InvoiceNumber,
			Date:      inv.Date,
			Kind:      kind,
			TotalPaid: inv.Total,
		},
		Items: items,
		ExplicitBank: &document.BankAccount{
			Name:          inv.BankName,
			RoutingCode:   inv.BankBSB,
			AccountNumber: inv.BankAcc,
		},
		IncludeLogo: s.includeLogo,
		AccentColor: s.accentColor,
	}, nil
}

func (s *Service) render(customerID int64, req document.RenderRequest) (string, error) {
	data, err := s.renderer.RenderBytes(req)
	if err != nil {
		return "", fmt.Errorf("failed to render %s %s: %w", req.Meta.Kind, req.Meta.Number, err)
	}

	path, err := s.archive.Save(req.Meta.Kind, archive.Ref{CustomerID: customerID, Number: req.Meta.Number}, data)
	if err != nil {
		return "", err
	}

	s.logger.Debug("Document written", zap.String("kind", string(req.Meta.Kind)), zap.String("path", path))
	return path, nil
}

func toDocumentCustomer(c *db.Customer) document.Customer {
	return document.Customer{
		Name:         c.Name,
		TaxID:        c.ABN,
		AddressLine1: c.AddressLine1,
		AddressLine2: c.AddressLine2,
	}
}
