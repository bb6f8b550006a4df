//go:build !librustzcash

package ffi

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/stabila-sign/pkg/zen"
)

func TestNewWithoutBindings(t *testing.T) {
	lib, err := New()
	require.ErrorIs(t, err, ErrUnavailable)
	require.Nil(t, lib)

	// A zero handle fails closed instead of producing keys.
	var sk zen.SpendingKey
	_, err = sk.FullViewingKey(&Library{})
	require.ErrorIs(t, err, zen.ErrKeyDerivationFailed)
	require.ErrorIs(t, err, ErrUnavailable)

	require.False(t, (&Library{}).CheckDiversifier(zen.Diversifier{}))
}
