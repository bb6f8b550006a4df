//go:build librustzcash

package ffi

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/stabila-sign/pkg/zen"
)

func newLibrary(t *testing.T) *Library {
	lib, err := New()
	require.NoError(t, err)
	return lib
}

func TestToScalarMatchesGo(t *testing.T) {
	lib := newLibrary(t)

	var wide [64]byte
	for i := range wide {
		wide[i] = byte(0xff - i)
	}

	got, err := lib.ToScalar(wide)
	require.NoError(t, err)
	require.Equal(t, zen.ToScalar(wide), got)

	t.Logf("✓ to_scalar agrees with the Go reduction: %x", got)
}

func TestShieldedAddress(t *testing.T) {
	lib := newLibrary(t)

	var sk zen.SpendingKey
	sk[0] = 1

	fvk, err := sk.FullViewingKey(lib)
	require.NoError(t, err)
	require.NotEqual(t, [32]byte{}, fvk.Ak)
	require.NotEqual(t, [32]byte{}, fvk.Nk)

	again, err := sk.FullViewingKey(lib)
	require.NoError(t, err)
	require.Equal(t, fvk, again)

	addr, err := zen.NewPaymentAddress(sk, lib,
		zen.NewDiversifierGenerator(lib, 0))
	require.NoError(t, err)
	require.True(t, lib.CheckDiversifier(addr.D))
	require.NotEqual(t, [32]byte{}, addr.PkD)

	t.Logf("✓ Derived payment address: d=%x pk_d=%x", addr.D[:], addr.PkD[:])
}
