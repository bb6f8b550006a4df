package roles

import (
	"errors"
	"fmt"

	"github.com/suffix-labs/stabila-sign/pkg/tx"
)

// ErrRawDataFrozen is returned when a constructor is asked to change a
// transaction that already carries signatures.
var ErrRawDataFrozen = errors.New("raw data is frozen once signed")

// Constructor adds contracts and metadata to an unsigned transaction.
//
// It works on a private copy; Finish returns the result and leaves the input
// transaction untouched.
type Constructor struct {
	tx *tx.Transaction
}

// NewConstructor creates a Constructor over a copy of t.
func NewConstructor(t *tx.Transaction) *Constructor {
	return &Constructor{tx: t.Clone()}
}

// AddContract packs p and appends it as the next contract.
func (c *Constructor) AddContract(p tx.Parameter) error {
	if c.tx.IsSigned() {
		return ErrRawDataFrozen
	}

	contract := tx.NewContract(p)
	if _, err := tx.ResolveOwner(contract); err != nil {
		return fmt.Errorf("contract %d: %w", c.tx.ContractCount(), err)
	}

	c.tx.RawData.Contracts = append(c.tx.RawData.Contracts, contract)
	return nil
}

// SetFeeLimit sets the energy fee cap, in sun.
func (c *Constructor) SetFeeLimit(limit int64) error {
	if c.tx.IsSigned() {
		return ErrRawDataFrozen
	}
	if limit < 0 {
		return fmt.Errorf("fee limit must not be negative, got %d", limit)
	}

	c.tx.RawData.FeeLimit = limit
	return nil
}

// SetData replaces the free-form memo.
func (c *Constructor) SetData(data []byte) error {
	if c.tx.IsSigned() {
		return ErrRawDataFrozen
	}

	c.tx.RawData.Data = append([]byte(nil), data...)
	return nil
}

// Finish returns the constructed transaction.
func (c *Constructor) Finish() (*tx.Transaction, error) {
	if c.tx.ContractCount() == 0 {
		return nil, ErrNoContracts
	}
	return c.tx, nil
}
