package crypto

import (
	"fmt"
	"hash"

	blake2b "github.com/minio/blake2b-simd"
)

// PersonalizationSize is the fixed length of a BLAKE2b personalization.
const PersonalizationSize = 16

// newPersonalizedBlake2b creates a BLAKE2b hash with the given output size
// and personalization. The personalization is NOT a key, but a distinct
// parameter that domain-separates the hash function.
func newPersonalizedBlake2b(personalization []byte, size int) (hash.Hash, error) {
	if len(personalization) != PersonalizationSize {
		return nil, fmt.Errorf("personalization must be %d bytes, got %d",
			PersonalizationSize, len(personalization))
	}
	if size < 1 || size > blake2b.Size {
		return nil, fmt.Errorf("invalid blake2b output size %d", size)
	}

	config := &blake2b.Config{
		Size:   uint8(size),
		Person: personalization,
	}
	return blake2b.New(config)
}

// PersonalizedHash computes BLAKE2b(personalization, msg...) with a digest
// of size bytes.
func PersonalizedHash(personalization []byte, size int, msg ...[]byte) ([]byte, error) {
	h, err := newPersonalizedBlake2b(personalization, size)
	if err != nil {
		return nil, err
	}
	for _, m := range msg {
		h.Write(m)
	}
	return h.Sum(nil), nil
}
