package crypto

import "crypto/sha256"

// HashSize is the size of a transaction hash in bytes.
const HashSize = sha256.Size

// Hash computes the SHA-256 digest used for transaction ids and signing.
func Hash(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// DoubleHash computes SHA-256(SHA-256(data)), used for base58check
// checksums.
func DoubleHash(data []byte) [32]byte {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}
