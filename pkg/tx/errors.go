package tx

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownContractType is matched by every error caused by a contract
	// whose parameter cannot be resolved: an unsupported tag, a type URL
	// that disagrees with the tag, or an undecodable payload.
	ErrUnknownContractType = errors.New("unknown contract type")

	// ErrMalformedTransaction is matched by every decode failure of a
	// serialized transaction.
	ErrMalformedTransaction = errors.New("malformed transaction")

	// ErrUserCancelled is returned when an interactive choice is declined.
	ErrUserCancelled = errors.New("cancelled by user")
)

// ContractError is returned when a contract's parameter cannot be unpacked.
type ContractError struct {
	Type    ContractType // Tag of the offending contract
	Message string       // Human-readable error message
	Cause   error        // Underlying decode error (if any)
}

func (e *ContractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("contract error [%s]: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("contract error [%s]: %s", e.Type, e.Message)
}

// Unwrap exposes both ErrUnknownContractType and the decode cause.
func (e *ContractError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrUnknownContractType, e.Cause}
	}
	return []error{ErrUnknownContractType}
}

// ParseError is returned when serialized transaction bytes cannot be
// decoded.
type ParseError struct {
	Message string // Human-readable error message
	Cause   error  // Underlying decode error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrMalformedTransaction, e.Cause}
	}
	return []error{ErrMalformedTransaction}
}
