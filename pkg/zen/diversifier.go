package zen

import (
	"crypto/rand"
	"fmt"
	"io"
)

const (
	// DiversifierSize is the length of a diversifier.
	DiversifierSize = 11

	// DefaultMaxDiversifierAttempts caps Generate. Roughly half of all
	// diversifiers are valid, so the cap is only reached by a broken oracle.
	DefaultMaxDiversifierAttempts = 1000
)

// Diversifier selects one of the unlinkable addresses of a viewing key.
type Diversifier [DiversifierSize]byte

// DiversifierGenerator draws random diversifiers until the oracle accepts
// one.
type DiversifierGenerator struct {
	// Rand is the randomness source. It must be safe for concurrent use if
	// the generator is shared. Defaults to crypto/rand.
	Rand io.Reader

	// Oracle decides validity.
	Oracle DiversifierOracle

	// MaxAttempts caps the number of draws. Defaults to
	// DefaultMaxDiversifierAttempts.
	MaxAttempts int
}

// NewDiversifierGenerator creates a generator that uses crypto/rand.
func NewDiversifierGenerator(oracle DiversifierOracle, maxAttempts int) *DiversifierGenerator {
	return &DiversifierGenerator{
		Rand:        rand.Reader,
		Oracle:      oracle,
		MaxAttempts: maxAttempts,
	}
}

// Generate returns the first valid diversifier. Each attempt draws a fresh
// 11 bytes; a failed or short read aborts generation rather than reusing a
// partial draw.
func (g *DiversifierGenerator) Generate() (Diversifier, error) {
	rng := g.Rand
	if rng == nil {
		rng = rand.Reader
	}
	maxAttempts := g.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxDiversifierAttempts
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var d Diversifier
		if _, err := io.ReadFull(rng, d[:]); err != nil {
			return Diversifier{}, fmt.Errorf("%w: read randomness: %w",
				ErrDiversifierGenerationFailed, err)
		}

		if g.Oracle.CheckDiversifier(d) {
			log.Tracef("Found valid diversifier after %d attempt(s)", attempt)
			return d, nil
		}
	}

	return Diversifier{}, fmt.Errorf("%w: no valid diversifier after %d "+
		"attempts", ErrDiversifierGenerationFailed, maxAttempts)
}
