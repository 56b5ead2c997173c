package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// Customer represents a customer record.
type Customer struct {
	ID                int64
	Name              string
	ABN               string
	AddressLine1      string
	AddressLine2      string
	NextInvoiceNumber int64
}

// CustomerStore manages customer records.
type CustomerStore struct {
	q Querier
}

// NewCustomerStore creates a new CustomerStore.
func NewCustomerStore(q Querier) *CustomerStore {
	return &CustomerStore{q: q}
}

// Create inserts a customer and returns its ID.
// A start number below 1 is stored as 1.
func (s *CustomerStore) Create(c Customer) (int64, error) {
	query := `
		INSERT INTO customers (name, abn, address_line_1, address_line_2, next_invoice_number)
		VALUES (?, ?, ?, ?, ?)
	`

	next := c.NextInvoiceNumber
	if next < 1 {
		next = 1
	}

	result, err := s.q.Exec(query,
		c.Name,
		nullString(c.ABN),
		nullString(c.AddressLine1),
		nullString(c.AddressLine2),
		next,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get customer id: %w", err)
	}

	return id, nil
}

// List returns all customers ordered by name.
func (s *CustomerStore) List() ([]Customer, error) {
	query := `
		SELECT id, name, COALESCE(abn, ''), COALESCE(address_line_1, ''),
		       COALESCE(address_line_2, ''), next_invoice_number
		FROM customers
		ORDER BY name, id
	`

	rows, err := s.q.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.ABN, &c.AddressLine1, &c.AddressLine2, &c.NextInvoiceNumber); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customers: %w", err)
	}

	return customers, nil
}

// Get retrieves a customer by ID. It returns ErrNotFound if the customer does not exist.
func (s *CustomerStore) Get(id int64) (*Customer, error) {
	query := `
		SELECT id, name, COALESCE(abn, ''), COALESCE(address_line_1, ''),
		       COALESCE(address_line_2, ''), next_invoice_number
		FROM customers
		WHERE id = ?
	`

	var c Customer
	err := s.q.QueryRow(query, id).Scan(&c.ID, &c.Name, &c.ABN, &c.AddressLine1, &c.AddressLine2, &c.NextInvoiceNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &c, nil
}

// IncrementInvoiceNumber advances the customer's next invoice number by one.
func (s *CustomerStore) IncrementInvoiceNumber(id int64) error {
	query := `UPDATE customers SET next_invoice_number = next_invoice_number + 1 WHERE id = ?`

	result, err := s.q.Exec(query, id)
	if err != nil {
		return fmt.Errorf("failed to increment invoice number: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("customer %d: %w", id, ErrNotFound)
	}

	return nil
}
