package roles

import (
	"fmt"

	"github.com/suffix-labs/stabila-sign/pkg/crypto"
	"github.com/suffix-labs/stabila-sign/pkg/tx"
)

// Signer appends signatures to a transaction.
//
// Each call to Sign appends exactly one signature. Signatures are positional:
// the i-th signature authorizes the i-th contract, so signers of a
// multi-contract transaction must sign in contract order. Existing
// signatures are never replaced.
type Signer struct {
	tx *tx.Transaction
}

// NewSigner creates a Signer over a copy of t.
func NewSigner(t *tx.Transaction) *Signer {
	return &Signer{tx: t.Clone()}
}

// Sign signs the signing hash with key and appends the 65-byte signature.
func (s *Signer) Sign(key crypto.DigestSigner) error {
	digest := SigningHash(s.tx)
	sig, err := key.SignDigest(digest)
	if err != nil {
		return fmt.Errorf("failed to sign: %w", err)
	}

	s.tx.Signatures = append(s.tx.Signatures, sig.Bytes())

	log.Debugf("Appended signature %d of %d", s.tx.SignatureCount(),
		s.tx.ContractCount())

	return nil
}

// Finish returns the signed transaction.
//
// The transaction can now be:
//   - Passed to another Signer for the next contract
//   - Passed to the Combiner alongside earlier copies it extends
//   - Passed to the Extractor once every contract is signed
func (s *Signer) Finish() *tx.Transaction {
	return s.tx
}

// Sign returns a copy of t with one more signature by key.
func Sign(t *tx.Transaction, key crypto.DigestSigner) (*tx.Transaction, error) {
	signer := NewSigner(t)
	if err := signer.Sign(key); err != nil {
		return nil, err
	}
	return signer.Finish(), nil
}
