package roles

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/suffix-labs/stabila-sign/pkg/tx"
)

// ErrConflictingSignatures is returned when two copies of a transaction
// carry different signatures at the same position.
var ErrConflictingSignatures = errors.New("conflicting signatures")

// ErrIncompatibleTransactions is returned when copies being combined do not
// share the same raw data.
var ErrIncompatibleTransactions = errors.New("transactions have different " +
	"raw data")

// Combiner reconciles copies of one transaction where one extends the other.
//
// Signatures are positional: the n-th signature authorizes the n-th
// contract. Signers therefore pass the transaction along one after another,
// and two owners signing the same copy independently both write position 0
// and conflict. The Combiner picks up the most complete copy when earlier
// ones are still around. Every copy must hold the same raw data, and each
// copy's signature list must be a prefix of the longest one. The result
// carries the longest list.
type Combiner struct {
	txs []*tx.Transaction
}

// NewCombiner creates a new Combiner.
func NewCombiner(txs []*tx.Transaction) *Combiner {
	return &Combiner{txs: txs}
}

// Combine merges all copies into a new transaction.
func (c *Combiner) Combine() (*tx.Transaction, error) {
	if len(c.txs) == 0 {
		return nil, fmt.Errorf("no transactions to combine")
	}

	result := c.txs[0].Clone()
	raw := result.RawData.Marshal()

	for i := 1; i < len(c.txs); i++ {
		if err := c.mergeInto(result, raw, c.txs[i]); err != nil {
			return nil, fmt.Errorf("failed to merge transaction %d: %w",
				i, err)
		}
	}

	log.Debugf("Combined %d copies into transaction with %d signature(s)",
		len(c.txs), result.SignatureCount())

	return result, nil
}

// mergeInto merges the signatures of src into dst.
func (c *Combiner) mergeInto(dst *tx.Transaction, dstRaw []byte,
	src *tx.Transaction) error {

	if !bytes.Equal(dstRaw, src.RawData.Marshal()) {
		return ErrIncompatibleTransactions
	}

	common := dst.SignatureCount()
	if src.SignatureCount() < common {
		common = src.SignatureCount()
	}
	for i := 0; i < common; i++ {
		if !bytes.Equal(dst.Signatures[i], src.Signatures[i]) {
			return fmt.Errorf("%w at position %d",
				ErrConflictingSignatures, i)
		}
	}

	for i := common; i < src.SignatureCount(); i++ {
		dst.Signatures = append(dst.Signatures,
			append([]byte{}, src.Signatures[i]...))
	}
	return nil
}
