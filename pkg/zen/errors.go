package zen

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyDerivationFailed is matched by every failure while deriving
	// keys from a spending key. Derivation is deterministic, so a failure
	// is never retried.
	ErrKeyDerivationFailed = errors.New("key derivation failed")

	// ErrDiversifierGenerationFailed is returned when no valid diversifier
	// was found within the attempt budget, or randomness ran out.
	ErrDiversifierGenerationFailed = errors.New("diversifier generation failed")

	// ErrInvalidDiversifier is returned when an address is requested for a
	// diversifier the proving library rejects.
	ErrInvalidDiversifier = errors.New("invalid diversifier")
)

// KeyDerivationError reports which derivation step failed.
type KeyDerivationError struct {
	Step  string // Derived value, e.g. "ask" or "ak"
	Cause error  // Underlying primitive error
}

func (e *KeyDerivationError) Error() string {
	return fmt.Sprintf("key derivation failed at %s: %v", e.Step, e.Cause)
}

// Unwrap exposes both ErrKeyDerivationFailed and the primitive's error.
func (e *KeyDerivationError) Unwrap() []error {
	return []error{ErrKeyDerivationFailed, e.Cause}
}

func derivationError(step string, err error) error {
	return &KeyDerivationError{Step: step, Cause: err}
}
