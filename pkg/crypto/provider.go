package crypto

// Hasher computes the canonical 32-byte digest of serialized data.
type Hasher interface {
	Hash(data []byte) [32]byte
}

// DigestSigner produces a recoverable signature over a 32-byte digest.
type DigestSigner interface {
	SignDigest(digest [32]byte) (Signature, error)
}

// AddressRecoverer recovers the signer's address from a digest and a
// signature.
type AddressRecoverer interface {
	RecoverAddress(digest [32]byte, sig Signature) (Address, error)
}

// Secp256k1 is the default primitive provider: SHA-256 hashing and
// secp256k1 recovery for addresses under Prefix.
type Secp256k1 struct {
	Prefix byte
}

// NewSecp256k1 returns a provider for the given network prefix.
func NewSecp256k1(prefix byte) *Secp256k1 {
	return &Secp256k1{Prefix: prefix}
}

// Hash implements Hasher.
func (p *Secp256k1) Hash(data []byte) [32]byte {
	return Hash(data)
}

// RecoverAddress implements AddressRecoverer.
func (p *Secp256k1) RecoverAddress(digest [32]byte, sig Signature) (Address, error) {
	return RecoverAddress(digest, sig, p.Prefix)
}

var (
	_ Hasher           = (*Secp256k1)(nil)
	_ AddressRecoverer = (*Secp256k1)(nil)
	_ DigestSigner     = (*PrivateKey)(nil)
)
