package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pigeonworks-llc/bookkeeper/pkg/document"
)

// parseItem reads a line item written as "quantity|description|unit price".
func parseItem(s string) (document.LineItem, error) {
	parts := strings.SplitN(s, "|", 3)
	if len(parts) != 3 {
		return document.LineItem{}, fmt.Errorf("item %q: want quantity|description|price", s)
	}

	qty, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil || qty < 0 {
		return document.LineItem{}, fmt.Errorf("item %q: quantity must be a whole number >= 0", s)
	}

	price, err := parseAmount(parts[2])
	if err != nil {
		return document.LineItem{}, fmt.Errorf("item %q: %w", s, err)
	}

	return document.LineItem{
		Quantity:    qty,
		Description: strings.TrimSpace(parts[1]),
		UnitPrice:   price,
	}, nil
}

// parseAmount accepts a non-negative decimal, tolerating a leading "$".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount %q must not be negative", s)
	}
	return d, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
