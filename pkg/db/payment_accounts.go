package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// PaymentAccount is a bank account invoices can be paid into.
type PaymentAccount struct {
	ID        int64
	Name      string
	BSB       string
	Acc       string
	IsDefault bool
}

// PaymentAccountStore manages payment accounts.
type PaymentAccountStore struct {
	q Querier
}

// NewPaymentAccountStore creates a new PaymentAccountStore.
func NewPaymentAccountStore(q Querier) *PaymentAccountStore {
	return &PaymentAccountStore{q: q}
}

// Add inserts an account. When makeDefault is set every other account loses
// its default flag; callers should run this inside a transaction.
func (s *PaymentAccountStore) Add(acc PaymentAccount, makeDefault bool) (int64, error) {
	if makeDefault {
		if _, err := s.q.Exec(`UPDATE payment_accounts SET is_default = 0`); err != nil {
			return 0, fmt.Errorf("failed to clear default account: %w", err)
		}
	}

	query := `INSERT INTO payment_accounts (name, bsb, acc, is_default) VALUES (?, ?, ?, ?)`

	result, err := s.q.Exec(query, acc.Name, nullString(acc.BSB), nullString(acc.Acc), boolToInt(makeDefault))
	if err != nil {
		return 0, fmt.Errorf("failed to add payment account: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get payment account id: %w", err)
	}

	return id, nil
}

// List returns all accounts, default first.
func (s *PaymentAccountStore) List() ([]PaymentAccount, error) {
	query := `
		SELECT id, name, COALESCE(bsb, ''), COALESCE(acc, ''), is_default
		FROM payment_accounts
		ORDER BY is_default DESC, id
	`

	rows, err := s.q.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment accounts: %w", err)
	}
	defer rows.Close()

	var accounts []PaymentAccount
	for rows.Next() {
		var a PaymentAccount
		if err := rows.Scan(&a.ID, &a.Name, &a.BSB, &a.Acc, &a.IsDefault); err != nil {
			return nil, fmt.Errorf("failed to scan payment account: %w", err)
		}
		accounts = append(accounts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment accounts: %w", err)
	}

	return accounts, nil
}

// Get retrieves an account by ID. It returns ErrNotFound if the account does not exist.
func (s *PaymentAccountStore) Get(id int64) (*PaymentAccount, error) {
	query := `
		SELECT id, name, COALESCE(bsb, ''), COALESCE(acc, ''), is_default
		FROM payment_accounts
		WHERE id = ?
	`

	var a PaymentAccount
	err := s.q.QueryRow(query, id).Scan(&a.ID, &a.Name, &a.BSB, &a.Acc, &a.IsDefault)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment account %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment account: %w", err)
	}

	return &a, nil
}

// Default returns the default account, or nil if none is flagged.
func (s *PaymentAccountStore) Default() (*PaymentAccount, error) {
	query := `
		SELECT id, name, COALESCE(bsb, ''), COALESCE(acc, ''), is_default
		FROM payment_accounts
		WHERE is_default = 1
		ORDER BY id
		LIMIT 1
	`

	var a PaymentAccount
	err := s.q.QueryRow(query).Scan(&a.ID, &a.Name, &a.BSB, &a.Acc, &a.IsDefault)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get default payment account: %w", err)
	}

	return &a, nil
}

// SetDefault flags one account as the default and clears all others.
// Callers should run this inside a transaction so a missing ID leaves the
// previous default intact.
func (s *PaymentAccountStore) SetDefault(id int64) error {
	if _, err := s.q.Exec(`UPDATE payment_accounts SET is_default = 0`); err != nil {
		return fmt.Errorf("failed to clear default account: %w", err)
	}

	result, err := s.q.Exec(`UPDATE payment_accounts SET is_default = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to set default account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("payment account %d: %w", id, ErrNotFound)
	}

	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
