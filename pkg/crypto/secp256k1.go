// Package crypto implements the signing primitives used to authorize
// Stabila transactions.
//
// Transactions are signed with recoverable secp256k1 ECDSA signatures. The
// signer's address is never transmitted: validators recover the public key
// from the signature and the signing hash, derive the address from it, and
// compare that against the owner address declared by the contract.
//
// Key formats:
//   - Private keys: raw 32 bytes or hex
//   - Public keys: uncompressed 65-byte format (0x04 prefix + x + y)
//   - Signatures: 65 bytes, R || S || recovery id
package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// PrivateKeySize is the length of a raw secp256k1 private key.
const PrivateKeySize = 32

var (
	// ErrInvalidPrivateKey is returned for keys that are not a valid
	// non-zero scalar.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrRecoveryFailed is returned when no public key can be recovered
	// from a signature.
	ErrRecoveryFailed = errors.New("public key recovery failed")
)

// PrivateKey wraps secp256k1 private key
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// PublicKey wraps secp256k1 public key
type PublicKey struct {
	key *secp256k1.PublicKey
}

// PrivateKeyFromBytes creates a private key from raw bytes
func PrivateKeyFromBytes(keyBytes []byte) (*PrivateKey, error) {
	if len(keyBytes) != PrivateKeySize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d",
			PrivateKeySize, len(keyBytes))
	}

	key := secp256k1.PrivKeyFromBytes(keyBytes)
	if key.Key.IsZero() {
		key.Zero()
		return nil, ErrInvalidPrivateKey
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromHex parses a hex-encoded 32-byte private key.
func PrivateKeyFromHex(s string) (*PrivateKey, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	defer zeroBytes(raw)

	return PrivateKeyFromBytes(raw)
}

// PrivateKeyFromPassphrase derives a private key as SHA-256(passphrase).
//
// This is how the reference wallet turns a pass phrase into an account. It
// offers no stretching and should only be used for test accounts.
func PrivateKeyFromPassphrase(passphrase []byte) (*PrivateKey, error) {
	digest := sha256.Sum256(passphrase)
	defer zeroBytes(digest[:])

	return PrivateKeyFromBytes(digest[:])
}

// GeneratePrivateKey returns a new random private key.
func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate private key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// SignDigest signs a 32-byte digest and returns the signature in wire
// order: R || S || recovery id (0 or 1).
func (pk *PrivateKey) SignDigest(digest [32]byte) (Signature, error) {
	if pk == nil || pk.key == nil {
		return Signature{}, ErrInvalidPrivateKey
	}

	// Compact format is: header (27 + recid) || R || S, over the
	// uncompressed key since addresses hash the uncompressed form.
	compact := ecdsa.SignCompact(pk.key, digest[:], false)
	if len(compact) != SignatureSize {
		return Signature{}, fmt.Errorf("unexpected compact signature length %d",
			len(compact))
	}

	var r, s [32]byte
	copy(r[:], compact[1:33])
	copy(s[:], compact[33:65])
	return EncodeSignature(r, s, compact[0]-recoveryIDOffset), nil
}

// PublicKey derives the public key
func (pk *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{key: pk.key.PubKey()}
}

// Address returns the account address controlled by this key.
func (pk *PrivateKey) Address(prefix byte) Address {
	return pk.PublicKey().Address(prefix)
}

// Bytes returns the raw 32-byte private key
func (pk *PrivateKey) Bytes() []byte {
	return pk.key.Serialize()
}

// Zero wipes the private key scalar. The key is unusable afterwards.
func (pk *PrivateKey) Zero() {
	if pk == nil || pk.key == nil {
		return
	}
	pk.key.Zero()
	pk.key = nil
}

// SerializeUncompressed returns the 65-byte uncompressed public key
func (pub *PublicKey) SerializeUncompressed() [65]byte {
	var result [65]byte
	copy(result[:], pub.key.SerializeUncompressed())
	return result
}

// Bytes returns the uncompressed public key bytes
func (pub *PublicKey) Bytes() []byte {
	return pub.key.SerializeUncompressed()
}

// Address derives the 21-byte address of the public key for the given
// network prefix.
func (pub *PublicKey) Address(prefix byte) Address {
	return addressFromUncompressed(prefix, pub.key.SerializeUncompressed())
}

// ParsePublicKey parses a compressed or uncompressed public key
func ParsePublicKey(pubKeyBytes []byte) (*PublicKey, error) {
	pubKey, err := secp256k1.ParsePubKey(pubKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	return &PublicKey{key: pubKey}, nil
}

// RecoverPublicKey recovers the public key that produced sig over digest.
//
// Only the uncompressed recovery ids 0 and 1 (27 and 28 once normalized) are
// accepted. The compressed header range would recover the same key from a
// modified signature.
func RecoverPublicKey(digest [32]byte, sig Signature) (*PublicKey, error) {
	r, s, v, err := DecodeSignature(sig[:])
	if err != nil {
		return nil, err
	}
	if v != recoveryIDOffset && v != recoveryIDOffset+1 {
		return nil, fmt.Errorf("%w: unsupported recovery id %d",
			ErrRecoveryFailed, v)
	}

	compact := make([]byte, 0, SignatureSize)
	compact = append(compact, v)
	compact = append(compact, r[:]...)
	compact = append(compact, s[:]...)

	pubKey, _, err := ecdsa.RecoverCompact(compact, digest[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecoveryFailed, err)
	}
	return &PublicKey{key: pubKey}, nil
}

// RecoverAddress recovers the address of the key that produced sig over
// digest.
func RecoverAddress(digest [32]byte, sig Signature, prefix byte) (Address, error) {
	pub, err := RecoverPublicKey(digest, sig)
	if err != nil {
		return Address{}, err
	}
	return pub.Address(prefix), nil
}

// VerifySignature reports whether sig over digest was produced by pubkey.
func VerifySignature(pubkey *PublicKey, digest [32]byte, sig Signature) bool {
	recovered, err := RecoverPublicKey(digest, sig)
	if err != nil {
		return false
	}
	return recovered.key.IsEqual(pubkey.key)
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
