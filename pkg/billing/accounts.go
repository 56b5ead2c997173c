package billing

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/pigeonworks-llc/bookkeeper/pkg/db"
	"github.com/pigeonworks-llc/bookkeeper/pkg/document"
)

// BankSource names where DefaultBank found its details.
type BankSource string

const (
	SourceAccount  BankSource = "payment account"
	SourceLegacy   BankSource = "legacy settings"
	SourceFallback BankSource = "fallback"
)

// AddAccount stores a payment account, optionally making it the default.
func (s *Service) AddAccount(acc db.PaymentAccount, makeDefault bool) (int64, error) {
	var id int64
	err := s.conn.Transaction(func(tx *sql.Tx) error {
		var err error
		id, err = db.NewPaymentAccountStore(tx).Add(acc, makeDefault)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Payment account added", zap.Int64("id", id), zap.String("name", acc.Name), zap.Bool("default", makeDefault))
	return id, nil
}

// ListAccounts returns all payment accounts, default first.
func (s *Service) ListAccounts() ([]db.PaymentAccount, error) {
	return db.NewPaymentAccountStore(s.conn).List()
}

// SetDefaultAccount makes id the only default account.
// An unknown id leaves the previous default in place.
func (s *Service) SetDefaultAccount(id int64) error {
	err := s.conn.Transaction(func(tx *sql.Tx) error {
		return db.NewPaymentAccountStore(tx).SetDefault(id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Default payment account changed", zap.Int64("id", id))
	return nil
}

// SetLegacyBank writes the single-account bank settings.
func (s *Service) SetLegacyBank(bank document.BankAccount) error {
	return s.conn.Transaction(func(tx *sql.Tx) error {
		return db.NewSettingsStore(tx).SetLegacyBank(db.LegacyBank{
			Name: bank.Name,
			BSB:  bank.RoutingCode,
			Acc:  bank.AccountNumber,
		})
	})
}

// DefaultBank returns the bank details new invoices print when no account is
// chosen: the default payment account if one exists, otherwise the legacy
// settings, each completed from the fallback.
func (s *Service) DefaultBank() (document.BankAccount, BankSource, error) {
	_, sources, err := s.bankTiers(s.conn, 0)
	if err != nil {
		return document.BankAccount{}, "", err
	}

	resolved := document.ResolveBank(nil, sources.Default, sources.Legacy)
	switch {
	case sources.Default != nil:
		return resolved, SourceAccount, nil
	case sources.Legacy != nil:
		return resolved, SourceLegacy, nil
	default:
		return resolved, SourceFallback, nil
	}
}

// bankTiers loads the explicit account (when accountID is set) and the stored
// tiers. Legacy settings are only read when no default account exists.
func (s *Service) bankTiers(q db.Querier, accountID int64) (*document.BankAccount, document.BankSources, error) {
	accounts := db.NewPaymentAccountStore(q)

	var explicit *document.BankAccount
	if accountID != 0 {
		acc, err := accounts.Get(accountID)
		if err != nil {
			return nil, document.BankSources{}, err
		}
		explicit = toDocumentBank(acc)
	}

	var sources document.BankSources
	def, err := accounts.Default()
	if err != nil {
		return nil, sources, err
	}
	if def != nil {
		sources.Default = toDocumentBank(def)
		return explicit, sources, nil
	}

	legacy, err := db.NewSettingsStore(q).LegacyBank()
	if err != nil {
		return nil, sources, fmt.Errorf("failed to read legacy bank settings: %w", err)
	}
	if !legacy.IsZero() {
		sources.Legacy = &document.BankAccount{
			Name:          legacy.Name,
			RoutingCode:   legacy.BSB,
			AccountNumber: legacy.Acc,
		}
	}

	return explicit, sources, nil
}

func toDocumentBank(acc *db.PaymentAccount) *document.BankAccount {
	return &document.BankAccount{
		Name:          acc.Name,
		RoutingCode:   acc.BSB,
		AccountNumber: acc.Acc,
	}
}
