//go:build !librustzcash

package ffi

import "github.com/suffix-labs/stabila-sign/pkg/zen"

const available = false

func toScalar([64]byte) ([32]byte, error) { return [32]byte{}, ErrUnavailable }

func askToAk([32]byte) ([32]byte, error) { return [32]byte{}, ErrUnavailable }

func nskToNk([32]byte) ([32]byte, error) { return [32]byte{}, ErrUnavailable }

func crhIvk(_, _ [32]byte) ([32]byte, error) { return [32]byte{}, ErrUnavailable }

func ivkToPkd([32]byte, zen.Diversifier) ([32]byte, error) {
	return [32]byte{}, ErrUnavailable
}

func checkDiversifier(zen.Diversifier) bool { return false }
