// Package zen derives the shielded (Sapling) key hierarchy used by Stabila
// shielded addresses.
//
// A 32-byte spending key is expanded with a personalized BLAKE2b PRF into
// the expanded spending key (ask, nsk, ovk). The proving library maps ask
// and nsk onto curve points to form the full viewing key, from which the
// incoming viewing key and diversified payment addresses follow.
//
// Derivation is deterministic. Any primitive failure is fatal and surfaces
// as ErrKeyDerivationFailed; there is no fallback path that could yield a
// different key for the same seed.
package zen

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/suffix-labs/stabila-sign/pkg/crypto"
)

const (
	// SpendingKeySize is the length of a spending key.
	SpendingKeySize = 32

	// ExpandSeedPersonalization is the BLAKE2b personalization of
	// PRFExpand. It is the 16-byte personalization block taken from the
	// network's "ZStabila_ExpandSeed" tag.
	ExpandSeedPersonalization = "ZStabila_ExpandS"

	// PRFExpandSize is the output length of PRFExpand.
	PRFExpandSize = 64
)

// PRFExpand domain tags.
const (
	tagAsk byte = 0x00
	tagNsk byte = 0x01
	tagOvk byte = 0x02
)

// SpendingKey is the root secret of a shielded address.
type SpendingKey [SpendingKeySize]byte

// ExpandedSpendingKey holds the secrets derived from a spending key.
type ExpandedSpendingKey struct {
	Ask [32]byte // Spend authorizing key
	Nsk [32]byte // Proof authorizing key
	Ovk [32]byte // Outgoing viewing key
}

// FullViewingKey allows viewing all transactions of an address without
// spend authority.
type FullViewingKey struct {
	Ak  [32]byte
	Nk  [32]byte
	Ovk [32]byte
}

// IncomingViewingKey allows detecting and decrypting incoming notes.
type IncomingViewingKey [32]byte

// PaymentAddress is a diversified shielded address.
type PaymentAddress struct {
	D   Diversifier
	PkD [32]byte
}

// SpendingKeyFromBytes copies b into a SpendingKey.
func SpendingKeyFromBytes(b []byte) (SpendingKey, error) {
	var sk SpendingKey
	if len(b) != SpendingKeySize {
		return sk, fmt.Errorf("spending key must be %d bytes, got %d",
			SpendingKeySize, len(b))
	}
	copy(sk[:], b)
	return sk, nil
}

// GenerateSpendingKey draws a spending key from rng, or from crypto/rand
// when rng is nil.
func GenerateSpendingKey(rng io.Reader) (SpendingKey, error) {
	if rng == nil {
		rng = rand.Reader
	}

	var sk SpendingKey
	if _, err := io.ReadFull(rng, sk[:]); err != nil {
		return SpendingKey{}, fmt.Errorf("read spending key: %w", err)
	}
	return sk, nil
}

// PRFExpand computes BLAKE2b-512 personalized with ExpandSeedPersonalization
// over sk || t.
func PRFExpand(sk SpendingKey, t byte) ([PRFExpandSize]byte, error) {
	var out [PRFExpandSize]byte

	var blob [SpendingKeySize + 1]byte
	copy(blob[:], sk[:])
	blob[SpendingKeySize] = t
	defer zero(blob[:])

	digest, err := crypto.PersonalizedHash(
		[]byte(ExpandSeedPersonalization), PRFExpandSize, blob[:])
	if err != nil {
		return out, err
	}
	defer zero(digest)

	if len(digest) != PRFExpandSize {
		return out, fmt.Errorf("prf output is %d bytes, want %d",
			len(digest), PRFExpandSize)
	}
	copy(out[:], digest)
	return out, nil
}

// Expand derives the expanded spending key:
//
//	ask = ToScalar(PRFExpand(sk, 0))
//	nsk = ToScalar(PRFExpand(sk, 1))
//	ovk = PRFExpand(sk, 2)[:32]
//
// A nil reducer uses DefaultScalarReducer.
func (sk SpendingKey) Expand(reducer ScalarReducer) (*ExpandedSpendingKey, error) {
	if reducer == nil {
		reducer = DefaultScalarReducer
	}

	esk := &ExpandedSpendingKey{}
	ok := false
	defer func() {
		if !ok {
			esk.Zero()
		}
	}()

	var err error
	if esk.Ask, err = prfScalar(sk, tagAsk, reducer); err != nil {
		return nil, derivationError("ask", err)
	}
	if esk.Nsk, err = prfScalar(sk, tagNsk, reducer); err != nil {
		return nil, derivationError("nsk", err)
	}

	wide, err := PRFExpand(sk, tagOvk)
	if err != nil {
		return nil, derivationError("ovk", err)
	}
	copy(esk.Ovk[:], wide[:32])
	zero(wide[:])

	ok = true
	return esk, nil
}

func prfScalar(sk SpendingKey, t byte, reducer ScalarReducer) ([32]byte, error) {
	wide, err := PRFExpand(sk, t)
	if err != nil {
		return [32]byte{}, err
	}
	defer zero(wide[:])

	return reducer.ToScalar(wide)
}

// FullViewingKey derives the full viewing key of sk.
func (sk SpendingKey) FullViewingKey(lib ProvingLibrary) (*FullViewingKey, error) {
	var fvk *FullViewingKey
	err := WithExpandedSpendingKey(sk, lib, func(esk *ExpandedSpendingKey) error {
		var err error
		fvk, err = esk.FullViewingKey(lib)
		return err
	})
	if err != nil {
		return nil, err
	}
	return fvk, nil
}

// Zero wipes the spending key.
func (sk *SpendingKey) Zero() {
	zero(sk[:])
}

// FullViewingKey derives ak and nk through the proving library and copies
// ovk.
func (esk *ExpandedSpendingKey) FullViewingKey(lib ProvingLibrary) (*FullViewingKey, error) {
	ak, err := lib.AskToAk(esk.Ask)
	if err != nil {
		return nil, derivationError("ak", err)
	}
	nk, err := lib.NskToNk(esk.Nsk)
	if err != nil {
		return nil, derivationError("nk", err)
	}

	return &FullViewingKey{Ak: ak, Nk: nk, Ovk: esk.Ovk}, nil
}

// Zero wipes every component of the key.
func (esk *ExpandedSpendingKey) Zero() {
	if esk == nil {
		return
	}
	zero(esk.Ask[:])
	zero(esk.Nsk[:])
	zero(esk.Ovk[:])
}

// WithExpandedSpendingKey expands sk and passes the result to fn. The
// expanded key is wiped when fn returns, on every path, so fn must not
// retain it.
func WithExpandedSpendingKey(sk SpendingKey, reducer ScalarReducer,
	fn func(*ExpandedSpendingKey) error) error {

	esk, err := sk.Expand(reducer)
	if err != nil {
		return err
	}
	defer esk.Zero()

	return fn(esk)
}

// IncomingViewingKey derives ivk = CRH(ak, nk).
func (fvk *FullViewingKey) IncomingViewingKey(lib ProvingLibrary) (IncomingViewingKey, error) {
	ivk, err := lib.CrhIvk(fvk.Ak, fvk.Nk)
	if err != nil {
		return IncomingViewingKey{}, derivationError("ivk", err)
	}
	return ivk, nil
}

// Address derives the payment address for diversifier d.
func (ivk IncomingViewingKey) Address(lib ProvingLibrary, d Diversifier) (PaymentAddress, error) {
	if !lib.CheckDiversifier(d) {
		return PaymentAddress{}, ErrInvalidDiversifier
	}

	pkd, err := lib.IvkToPkd([32]byte(ivk), d)
	if err != nil {
		return PaymentAddress{}, derivationError("pk_d", err)
	}
	return PaymentAddress{D: d, PkD: pkd}, nil
}

// NewPaymentAddress derives a fresh diversified address for sk, drawing the
// diversifier from gen.
func NewPaymentAddress(sk SpendingKey, lib ProvingLibrary,
	gen *DiversifierGenerator) (PaymentAddress, error) {

	fvk, err := sk.FullViewingKey(lib)
	if err != nil {
		return PaymentAddress{}, err
	}
	ivk, err := fvk.IncomingViewingKey(lib)
	if err != nil {
		return PaymentAddress{}, err
	}

	d, err := gen.Generate()
	if err != nil {
		return PaymentAddress{}, err
	}

	addr, err := ivk.Address(lib, d)
	if err != nil {
		return PaymentAddress{}, err
	}

	log.Debugf("Derived payment address with diversifier %x", d[:])
	return addr, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
