package roles

import (
	"errors"
	"fmt"

	"github.com/suffix-labs/stabila-sign/pkg/tx"
)

var (
	// ErrIncomplete is returned when a transaction lacks a signature for
	// some contract.
	ErrIncomplete = errors.New("transaction is not fully signed")

	// ErrUnauthorized is returned when a fully signed transaction fails
	// validation.
	ErrUnauthorized = errors.New("transaction invalid")
)

// TxExtractor produces broadcast bytes from a fully authorized transaction.
//
// This is the final role. The extracted bytes are the full transaction
// encoding, signatures included.
type TxExtractor struct {
	tx        *tx.Transaction
	validator *Validator
}

// NewTxExtractor creates a new TxExtractor that checks t with v.
func NewTxExtractor(t *tx.Transaction, v *Validator) *TxExtractor {
	return &TxExtractor{tx: t, validator: v}
}

// Extract validates the transaction and returns its encoding.
//
// A validation failure is reported as ErrUnauthorized only, without saying
// which signature failed.
func (e *TxExtractor) Extract() ([]byte, error) {
	if e.tx.SignatureCount() < e.tx.ContractCount() {
		return nil, fmt.Errorf("%w: %d of %d signature(s)", ErrIncomplete,
			e.tx.SignatureCount(), e.tx.ContractCount())
	}

	if !e.validator.Validate(e.tx) {
		return nil, ErrUnauthorized
	}

	return e.tx.Marshal(), nil
}

// TxID returns the id of the transaction being extracted.
func (e *TxExtractor) TxID() [32]byte {
	return e.tx.ID()
}
