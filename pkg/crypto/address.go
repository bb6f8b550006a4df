package crypto

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	"golang.org/x/crypto/sha3"
)

const (
	// AddressSize is the length of an account address: prefix + 20 bytes.
	AddressSize = 21

	// MainNetPrefix is the address prefix byte on the main network.
	MainNetPrefix byte = 0x41

	// TestNetPrefix is the address prefix byte on test networks.
	TestNetPrefix byte = 0xa0

	checksumSize = 4
)

var (
	// ErrInvalidAddress is returned for malformed addresses.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrChecksumMismatch is returned when a base58check string fails its
	// checksum.
	ErrChecksumMismatch = errors.New("address checksum mismatch")
)

// Address identifies an account: 1-byte network prefix followed by the
// last 20 bytes of Keccak-256 over the uncompressed public key.
type Address [AddressSize]byte

// AddressFromBytes copies b into an Address.
func AddressFromBytes(b []byte) (Address, error) {
	var addr Address
	if len(b) != AddressSize {
		return addr, fmt.Errorf("%w: got %d bytes, want %d",
			ErrInvalidAddress, len(b), AddressSize)
	}
	copy(addr[:], b)
	return addr, nil
}

// Prefix returns the network prefix byte.
func (a Address) Prefix() byte {
	return a[0]
}

// Bytes returns a copy of the raw address.
func (a Address) Bytes() []byte {
	out := make([]byte, AddressSize)
	copy(out, a[:])
	return out
}

// Equal reports whether a and raw hold the same address bytes.
func (a Address) Equal(raw []byte) bool {
	return bytes.Equal(a[:], raw)
}

// String returns the base58check encoding.
func (a Address) String() string {
	return EncodeBase58Check(a)
}

func addressFromUncompressed(prefix byte, uncompressed []byte) Address {
	h := sha3.NewLegacyKeccak256()
	// Drop the 0x04 point-format byte.
	h.Write(uncompressed[1:])
	digest := h.Sum(nil)

	var addr Address
	addr[0] = prefix
	copy(addr[1:], digest[len(digest)-20:])
	return addr
}

// EncodeBase58Check encodes an address as base58(addr || checksum).
func EncodeBase58Check(addr Address) string {
	checksum := DoubleHash(addr[:])

	payload := make([]byte, 0, AddressSize+checksumSize)
	payload = append(payload, addr[:]...)
	payload = append(payload, checksum[:checksumSize]...)
	return base58.Encode(payload)
}

// DecodeBase58Check decodes and verifies a base58check address.
func DecodeBase58Check(s string) (Address, error) {
	decoded := base58.Decode(s)
	if len(decoded) != AddressSize+checksumSize {
		return Address{}, fmt.Errorf("%w: decoded length %d",
			ErrInvalidAddress, len(decoded))
	}

	payload := decoded[:AddressSize]
	checksum := DoubleHash(payload)
	if !bytes.Equal(decoded[AddressSize:], checksum[:checksumSize]) {
		return Address{}, ErrChecksumMismatch
	}

	addr, err := AddressFromBytes(payload)
	if err != nil {
		return Address{}, err
	}
	if addr.Prefix() != MainNetPrefix && addr.Prefix() != TestNetPrefix {
		return Address{}, fmt.Errorf("%w: unknown prefix 0x%02x",
			ErrInvalidAddress, addr.Prefix())
	}
	return addr, nil
}
