package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// Keys of the legacy single-account bank settings.
const (
	SettingBankName = "bank_name"
	SettingBankBSB  = "bank_bsb"
	SettingBankAcc  = "bank_acc"
)

// SettingsStore manages key-value settings.
type SettingsStore struct {
	q Querier
}

// NewSettingsStore creates a new SettingsStore.
func NewSettingsStore(q Querier) *SettingsStore {
	return &SettingsStore{q: q}
}

// Get returns a setting value and whether it was present.
func (s *SettingsStore) Get(key string) (string, bool, error) {
	var value sql.NullString
	err := s.q.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value.String, true, nil
}

// Set stores a setting, replacing any previous value.
func (s *SettingsStore) Set(key, value string) error {
	query := `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`
	if _, err := s.q.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// LegacyBank holds the bank details kept in settings before payment accounts existed.
type LegacyBank struct {
	Name string
	BSB  string
	Acc  string
}

// IsZero reports whether no legacy field is set.
func (b LegacyBank) IsZero() bool {
	return b.Name == "" && b.BSB == "" && b.Acc == ""
}

// SetLegacyBank writes all three legacy bank settings.
func (s *SettingsStore) SetLegacyBank(b LegacyBank) error {
	for _, kv := range [][2]string{
		{SettingBankName, b.Name},
		{SettingBankBSB, b.BSB},
		{SettingBankAcc, b.Acc},
	} {
		if err := s.Set(kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

// LegacyBank reads the legacy bank settings. Missing keys are left empty.
func (s *SettingsStore) LegacyBank() (LegacyBank, error) {
	var b LegacyBank
	for key, dst := range map[string]*string{
		SettingBankName: &b.Name,
		SettingBankBSB:  &b.BSB,
		SettingBankAcc:  &b.Acc,
	} {
		value, _, err := s.Get(key)
		if err != nil {
			return LegacyBank{}, err
		}
		*dst = value
	}
	return b, nil
}
