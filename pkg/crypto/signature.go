package crypto

import (
	"errors"
	"fmt"
)

const (
	// SignatureSize is the length of an encoded recoverable signature.
	SignatureSize = 65

	// recoveryIDOffset maps a raw 0..7 recovery id onto the 27..34 header
	// range expected by public key recovery.
	recoveryIDOffset = 27
)

// ErrInvalidSignatureLength is returned when a buffer does not hold exactly
// SignatureSize bytes.
var ErrInvalidSignatureLength = errors.New("invalid signature length")

// Signature is a recoverable secp256k1 signature: R (32) || S (32) || V (1).
type Signature [SignatureSize]byte

// EncodeSignature concatenates the signature components.
func EncodeSignature(r, s [32]byte, v byte) Signature {
	var sig Signature
	copy(sig[0:32], r[:])
	copy(sig[32:64], s[:])
	sig[64] = v
	return sig
}

// DecodeSignature splits buf into its components. A recovery id below 27
// is a raw 0/1 id from the wire and is shifted into the 27+ range.
func DecodeSignature(buf []byte) (r, s [32]byte, v byte, err error) {
	if len(buf) != SignatureSize {
		return r, s, 0, fmt.Errorf("%w: got %d bytes, want %d",
			ErrInvalidSignatureLength, len(buf), SignatureSize)
	}

	copy(r[:], buf[0:32])
	copy(s[:], buf[32:64])
	v = buf[64]
	if v < recoveryIDOffset {
		v += recoveryIDOffset
	}
	return r, s, v, nil
}

// SignatureFromBytes copies buf into a Signature.
func SignatureFromBytes(buf []byte) (Signature, error) {
	var sig Signature
	if len(buf) != SignatureSize {
		return sig, fmt.Errorf("%w: got %d bytes, want %d",
			ErrInvalidSignatureLength, len(buf), SignatureSize)
	}
	copy(sig[:], buf)
	return sig, nil
}

// Bytes returns a copy of the encoded signature.
func (sig Signature) Bytes() []byte {
	out := make([]byte, SignatureSize)
	copy(out, sig[:])
	return out
}
