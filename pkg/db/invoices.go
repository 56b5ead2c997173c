package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	StatusUnpaid InvoiceStatus = "unpaid"
	StatusPaid   InvoiceStatus = "paid"
)

// Toggled returns the opposite status.
func (s InvoiceStatus) Toggled() InvoiceStatus {
	if s == StatusPaid {
		return StatusUnpaid
	}
	return StatusPaid
}

// Invoice represents an invoice record with its bank snapshot.
type Invoice struct {
	ID            int64
	CustomerID    int64
	CustomerName  string
	InvoiceNumber string
	Date          string
	Status        InvoiceStatus
	Total         decimal.Decimal
	PDFPath       string
	BankName      string
	BankBSB       string
	BankAcc       string
}

// LineItem represents a stored invoice line.
type LineItem struct {
	ID          int64
	InvoiceID   int64
	Quantity    int64
	Description string
	Price       decimal.Decimal
}

// InvoiceStore manages invoices and their line items.
type InvoiceStore struct {
	q Querier
}

// NewInvoiceStore creates a new InvoiceStore.
func NewInvoiceStore(q Querier) *InvoiceStore {
	return &InvoiceStore{q: q}
}

// Create inserts an invoice and returns its ID.
func (s *InvoiceStore) Create(inv Invoice) (int64, error) {
	query := `
		INSERT INTO invoices (customer_id, invoice_number, date, status, total, pdf_path, bank_name, bank_bsb, bank_acc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	status := inv.Status
	if status == "" {
		status = StatusUnpaid
	}

	result, err := s.q.Exec(query,
		inv.CustomerID,
		inv.InvoiceNumber,
		inv.Date,
		string(status),
		inv.Total.String(),
		nullString(inv.PDFPath),
		nullString(inv.BankName),
		nullString(inv.BankBSB),
		nullString(inv.BankAcc),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create invoice: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get invoice id: %w", err)
	}

	return id, nil
}

// AddLineItem attaches a line item to an invoice.
func (s *InvoiceStore) AddLineItem(item LineItem) error {
	query := `INSERT INTO line_items (invoice_id, qty, description, price) VALUES (?, ?, ?, ?)`

	if _, err := s.q.Exec(query, item.InvoiceID, item.Quantity, item.Description, item.Price.String()); err != nil {
		return fmt.Errorf("failed to add line item: %w", err)
	}
	return nil
}

const invoiceColumns = `
	i.id, i.customer_id, c.name, i.invoice_number, i.date, i.status, i.total,
	COALESCE(i.pdf_path, ''), COALESCE(i.bank_name, ''), COALESCE(i.bank_bsb, ''), COALESCE(i.bank_acc, '')
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvoice(r rowScanner) (*Invoice, error) {
	var inv Invoice
	var status, total string
	if err := r.Scan(
		&inv.ID, &inv.CustomerID, &inv.CustomerName, &inv.InvoiceNumber, &inv.Date,
		&status, &total, &inv.PDFPath, &inv.BankName, &inv.BankBSB, &inv.BankAcc,
	); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(total)
	if err != nil {
		return nil, fmt.Errorf("invalid total %q for invoice %d: %w", total, inv.ID, err)
	}
	inv.Total = amount
	inv.Status = InvoiceStatus(status)

	return &inv, nil
}

// Get retrieves an invoice by ID. It returns ErrNotFound if the invoice does not exist.
func (s *InvoiceStore) Get(id int64) (*Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		WHERE i.id = ?
	`

	inv, err := scanInvoice(s.q.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("invoice %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	return inv, nil
}

// List returns all invoices, newest first.
func (s *InvoiceStore) List() ([]Invoice, error) {
	query := `SELECT ` + invoiceColumns + `
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		ORDER BY i.id DESC
	`

	rows, err := s.q.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}

	return invoices, nil
}

// Items returns the line items of an invoice in insertion order.
func (s *InvoiceStore) Items(invoiceID int64) ([]LineItem, error) {
	query := `
		SELECT id, invoice_id, qty, description, price
		FROM line_items
		WHERE invoice_id = ?
		ORDER BY id
	`

	rows, err := s.q.Query(query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list line items: %w", err)
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var item LineItem
		var price string
		if err := rows.Scan(&item.ID, &item.InvoiceID, &item.Quantity, &item.Description, &price); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		item.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q for line item %d: %w", price, item.ID, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate line items: %w", err)
	}

	return items, nil
}

// UpdateStatus sets the payment status of an invoice.
func (s *InvoiceStore) UpdateStatus(id int64, status InvoiceStatus) error {
	return s.exec(`UPDATE invoices SET status = ? WHERE id = ?`, "update invoice status", id, string(status), id)
}

// UpdatePDFPath records where the invoice document was written.
func (s *InvoiceStore) UpdatePDFPath(id int64, path string) error {
	return s.exec(`UPDATE invoices SET pdf_path = ? WHERE id = ?`, "update invoice path", id, nullString(path), id)
}

// Delete removes an invoice together with its line items.
func (s *InvoiceStore) Delete(id int64) error {
	if _, err := s.q.Exec(`DELETE FROM line_items WHERE invoice_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete line items: %w", err)
	}
	return s.exec(`DELETE FROM invoices WHERE id = ?`, "delete invoice", id, id)
}

func (s *InvoiceStore) exec(query, action string, id int64, args ...any) error {
	result, err := s.q.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("invoice %d: %w", id, ErrNotFound)
	}

	return nil
}
