package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrNotFound            = errors.New("not found")
	ErrLedger              = errors.New("ledger error")
	ErrInsufficientFunds   = fmt.Errorf("%w: insufficient funds", ErrLedger)
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrStore               = errors.New("store error")
)

// StoreError tags a persistence failure unless it already carries a domain kind.
func StoreError(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{ErrNotFound, ErrConcurrencyConflict, ErrLedger, ErrStore} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrStore, err)
}

// LedgerError tags a ledger failure, keeping ErrInsufficientFunds intact.
func LedgerError(err error) error {
	if err == nil || errors.Is(err, ErrLedger) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrLedger, err)
}
