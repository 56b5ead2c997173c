package db

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TypeIncome TransactionType = "income"
	TypeCost   TransactionType = "cost"
)

// ParseTransactionType validates a user-supplied type.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TypeIncome, TypeCost:
		return TransactionType(s), nil
	default:
		return "", fmt.Errorf("unknown transaction type %q (want income or cost)", s)
	}
}

// Transaction is a single income or cost entry.
type Transaction struct {
	ID       int64
	Date     string
	Type     TransactionType
	Amount   decimal.Decimal
	Category string
	Notes    string
}

// ProfitLoss summarises income against costs.
type ProfitLoss struct {
	Income decimal.Decimal
	Costs  decimal.Decimal
}

// Net returns income minus costs.
func (p ProfitLoss) Net() decimal.Decimal {
	return p.Income.Sub(p.Costs)
}

// TransactionStore manages income and cost entries.
type TransactionStore struct {
	q Querier
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(q Querier) *TransactionStore {
	return &TransactionStore{q: q}
}

// Add records a transaction and returns its ID.
func (s *TransactionStore) Add(t Transaction) (int64, error) {
	query := `
		INSERT INTO transactions (date, type, amount, category, notes)
		VALUES (?, ?, ?, ?, ?)
	`

	category := t.Category
	if category == "" {
		category = "general"
	}

	result, err := s.q.Exec(query, t.Date, string(t.Type), t.Amount.String(), category, t.Notes)
	if err != nil {
		return 0, fmt.Errorf("failed to add transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get transaction id: %w", err)
	}

	return id, nil
}

// List returns all transactions ordered by date, newest first.
func (s *TransactionStore) List() ([]Transaction, error) {
	query := `
		SELECT id, date, type, amount, category, notes
		FROM transactions
		ORDER BY date DESC, id DESC
	`

	rows, err := s.q.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var t Transaction
		var typ, amount string
		if err := rows.Scan(&t.ID, &t.Date, &typ, &amount, &t.Category, &t.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.Type = TransactionType(typ)
		t.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q for transaction %d: %w", amount, t.ID, err)
		}
		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return txs, nil
}

// ProfitLoss totals all income and cost entries.
func (s *TransactionStore) ProfitLoss() (ProfitLoss, error) {
	txs, err := s.List()
	if err != nil {
		return ProfitLoss{}, err
	}

	pl := ProfitLoss{Income: decimal.Zero, Costs: decimal.Zero}
	for _, t := range txs {
		switch t.Type {
		case TypeIncome:
			pl.Income = pl.Income.Add(t.Amount)
		case TypeCost:
			pl.Costs = pl.Costs.Add(t.Amount)
		}
	}

	return pl, nil
}
