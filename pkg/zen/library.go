package zen

// ScalarReducer reduces a 64-byte little-endian integer modulo the Jubjub
// scalar field order.
type ScalarReducer interface {
	ToScalar(wide [64]byte) ([32]byte, error)
}

// DiversifierOracle decides whether a diversifier maps to a valid curve
// point.
type DiversifierOracle interface {
	CheckDiversifier(d Diversifier) bool
}

// ProvingLibrary is the subset of the Sapling proving library the key
// hierarchy needs. Its scalar-to-point operations are not reimplemented
// here.
type ProvingLibrary interface {
	ScalarReducer
	DiversifierOracle

	// AskToAk returns the spend validating key ak = ask * G.
	AskToAk(ask [32]byte) ([32]byte, error)

	// NskToNk returns the nullifier deriving key nk = nsk * H.
	NskToNk(nsk [32]byte) ([32]byte, error)

	// CrhIvk returns the incoming viewing key CRH(ak, nk).
	CrhIvk(ak, nk [32]byte) ([32]byte, error)

	// IvkToPkd returns the transmission key pk_d = ivk * G_d.
	IvkToPkd(ivk [32]byte, d Diversifier) ([32]byte, error)
}
