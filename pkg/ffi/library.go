// Package ffi provides CGO bindings to librustzcash, the Sapling proving
// library.
//
// The shielded key hierarchy needs curve operations on Jubjub (ask -> ak,
// nsk -> nk, ivk -> pk_d) and the diversifier validity check. These are
// delegated to librustzcash instead of being reimplemented in Go.
//
// The bindings are only compiled with the librustzcash build tag:
//
//	go build -tags librustzcash ./...
//
// The CGO directives expect the static library under
// ${SRCDIR}/rust/target/release. Without the tag New returns ErrUnavailable
// and callers fall back to the pure-Go scalar reduction where possible.
package ffi

import (
	"errors"
	"fmt"

	"github.com/suffix-labs/stabila-sign/pkg/zen"
)

// ErrUnavailable is returned by New when the bindings were not compiled in.
var ErrUnavailable = errors.New("librustzcash bindings not compiled in " +
	"(build with -tags librustzcash)")

// FFIError represents a failure reported by the library.
type FFIError struct {
	Op      string // C function that failed
	Message string
}

func (e *FFIError) Error() string {
	return fmt.Sprintf("FFI error in %s: %s", e.Op, e.Message)
}

// Library is a handle to librustzcash. It holds no state; the C functions
// are safe for concurrent use.
type Library struct{}

var _ zen.ProvingLibrary = (*Library)(nil)

// New returns a handle to the library, or ErrUnavailable.
func New() (*Library, error) {
	if !available {
		return nil, ErrUnavailable
	}
	return &Library{}, nil
}

// ToScalar reduces a 64-byte little-endian integer modulo the Jubjub order.
func (l *Library) ToScalar(wide [64]byte) ([32]byte, error) {
	return toScalar(wide)
}

// AskToAk returns ak = ask * G.
func (l *Library) AskToAk(ask [32]byte) ([32]byte, error) {
	return askToAk(ask)
}

// NskToNk returns nk = nsk * H.
func (l *Library) NskToNk(nsk [32]byte) ([32]byte, error) {
	return nskToNk(nsk)
}

// CrhIvk returns the incoming viewing key for (ak, nk).
func (l *Library) CrhIvk(ak, nk [32]byte) ([32]byte, error) {
	return crhIvk(ak, nk)
}

// IvkToPkd returns the transmission key for diversifier d.
func (l *Library) IvkToPkd(ivk [32]byte, d zen.Diversifier) ([32]byte, error) {
	return ivkToPkd(ivk, d)
}

// CheckDiversifier reports whether d maps to a valid point.
func (l *Library) CheckDiversifier(d zen.Diversifier) bool {
	return checkDiversifier(d)
}
