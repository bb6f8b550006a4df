package zen

import (
	"math/big"
)

// jubjubOrder is r, the order of the Jubjub prime-order subgroup.
var jubjubOrder, _ = new(big.Int).SetString(
	"0e7db4ea6533afa906673b0101343b00a6682093ccc81082d0970e5ed6f72cb7", 16)

// ToScalar interprets wide as a little-endian integer and reduces it modulo
// r. The result is little-endian.
func ToScalar(wide [64]byte) [32]byte {
	var be [64]byte
	for i := range wide {
		be[63-i] = wide[i]
	}
	defer zero(be[:])

	n := new(big.Int).SetBytes(be[:])
	n.Mod(n, jubjubOrder)

	var reduced [32]byte
	n.FillBytes(reduced[:])
	n.SetInt64(0)

	var out [32]byte
	for i := range reduced {
		out[31-i] = reduced[i]
	}
	zero(reduced[:])
	return out
}

type defaultScalarReducer struct{}

func (defaultScalarReducer) ToScalar(wide [64]byte) ([32]byte, error) {
	return ToScalar(wide), nil
}

// DefaultScalarReducer reduces scalars in Go, without the proving library.
var DefaultScalarReducer ScalarReducer = defaultScalarReducer{}
