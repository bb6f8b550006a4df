package roles

import (
	"github.com/suffix-labs/stabila-sign/pkg/crypto"
	"github.com/suffix-labs/stabila-sign/pkg/tx"
)

// Validator checks that a transaction is fully authorized: one signature
// per contract, each recovering to that contract's owner.
type Validator struct {
	recoverer crypto.AddressRecoverer
}

// NewValidator creates a Validator that recovers addresses with r.
func NewValidator(r crypto.AddressRecoverer) *Validator {
	return &Validator{recoverer: r}
}

// NewNetworkValidator creates a Validator using secp256k1 recovery for
// addresses under prefix.
func NewNetworkValidator(prefix byte) *Validator {
	return NewValidator(crypto.NewSecp256k1(prefix))
}

// Validate reports whether t is fully authorized. It fails closed: an
// unsigned transaction, a signature count that differs from the contract
// count, an unresolvable owner, a malformed signature, or any owner mismatch
// all yield false. The reason is only logged, never returned.
func (v *Validator) Validate(t *tx.Transaction) bool {
	if t == nil {
		return false
	}

	count := t.SignatureCount()
	if count == 0 {
		log.Trace("Rejecting unsigned transaction")
		return false
	}
	if count != t.ContractCount() {
		log.Tracef("Rejecting transaction with %d signature(s) for %d "+
			"contract(s)", count, t.ContractCount())
		return false
	}

	digest := SigningHash(t)
	for i := 0; i < count; i++ {
		if !v.authorizes(digest, t.RawData.Contracts[i], t.Signatures[i]) {
			log.Tracef("Rejecting transaction: contract %d not authorized", i)
			return false
		}
	}
	return true
}

// authorizes reports whether rawSig over digest recovers to the owner of c.
func (v *Validator) authorizes(digest [32]byte, c tx.Contract, rawSig []byte) bool {
	owner, err := tx.ResolveOwner(c)
	if err != nil {
		log.Tracef("Owner resolution failed: %v", err)
		return false
	}

	sig, err := crypto.SignatureFromBytes(rawSig)
	if err != nil {
		log.Tracef("Bad signature: %v", err)
		return false
	}

	recovered, err := v.recoverer.RecoverAddress(digest, sig)
	if err != nil {
		log.Tracef("Recovery failed: %v", err)
		return false
	}

	return recovered == owner
}
