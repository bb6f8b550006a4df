// Package api provides the high-level public API for transaction
// authorization and shielded key derivation.
//
// This is the main entry point for applications using the stabila-sign
// library. Transactions cross this boundary as serialized bytes:
//
//  1. ProposeTransfer - Builds an unsigned transaction from a payment request
//  2. GetSigningHash - Computes the digest every signature covers
//  3. SetPermissionID - Selects the account permission of the first contract
//  4. AppendSignature - Adds one signature
//  5. Combine - Reconciles copies where one extends the other
//  6. ValidateTransaction - Checks every signature against its owner
//  7. Extract - Produces broadcast bytes from a fully signed transaction
//  8. DeriveShieldedKeys / NewPaymentAddress - Shielded key hierarchy
package api

import (
	"fmt"

	"github.com/lightningnetwork/lnd/clock"

	"github.com/suffix-labs/stabila-sign/pkg/config"
	"github.com/suffix-labs/stabila-sign/pkg/crypto"
	"github.com/suffix-labs/stabila-sign/pkg/roles"
	"github.com/suffix-labs/stabila-sign/pkg/tx"
	"github.com/suffix-labs/stabila-sign/pkg/zen"
	"github.com/suffix-labs/stabila-sign/pkg/zip321"
)

// TransferProposal describes an unsigned transfer transaction.
type TransferProposal struct {
	Owner    crypto.Address       // Account paying every contract
	Request  string               // Payment request URI (stabila:...)
	RefBlock *roles.ReferenceBlock // Optional reference block
}

// ============================================================================
// API Function 1: ProposeTransfer
// ============================================================================

// ProposeTransfer creates an unsigned transaction paying every recipient of
// the request from the proposal's owner.
//
// The transaction is stamped with clk and expires after the configured
// window. Payment memos are carried in the transaction data.
func ProposeTransfer(proposal *TransferProposal, cfg *config.Config,
	clk clock.Clock) ([]byte, error) {

	req, err := zip321.Parse(proposal.Request)
	if err != nil {
		return nil, fmt.Errorf("invalid payment request: %w", err)
	}

	contracts, err := req.Contracts(proposal.Owner)
	if err != nil {
		return nil, fmt.Errorf("invalid payment request: %w", err)
	}

	creator := roles.NewCreator(clk).
		WithExpirationWindow(cfg.ExpirationWindow).
		WithFeeLimit(cfg.FeeLimit).
		WithData([]byte(req.Memo()))
	if proposal.RefBlock != nil {
		creator = creator.WithReferenceBlock(*proposal.RefBlock)
	}

	unsigned, err := creator.Create(contracts...)
	if err != nil {
		return nil, err
	}

	log.Debugf("Proposed transaction %x with %d contract(s)",
		unsigned.ID(), unsigned.ContractCount())

	return unsigned.Marshal(), nil
}

// ============================================================================
// API Function 2: GetSigningHash
// ============================================================================

// GetSigningHash returns the digest every signature on the transaction
// covers. It is also the transaction id.
func GetSigningHash(txBytes []byte) ([32]byte, error) {
	t, err := tx.UnmarshalTransaction(txBytes)
	if err != nil {
		return [32]byte{}, err
	}
	return roles.SigningHash(t), nil
}

// ============================================================================
// API Function 3: SetPermissionID
// ============================================================================

// SetPermissionID sets the permission id of the first contract. Signed
// transactions and transactions that already name a permission are
// returned unchanged.
func SetPermissionID(txBytes []byte, id int32) ([]byte, error) {
	t, err := tx.UnmarshalTransaction(txBytes)
	if err != nil {
		return nil, err
	}
	return roles.ApplyPermissionID(t, id).Marshal(), nil
}

// ============================================================================
// API Function 4: AppendSignature
// ============================================================================

// AppendSignature signs the transaction with key and appends the signature.
//
// Signatures are positional: the n-th call authorizes the n-th contract.
func AppendSignature(txBytes []byte, key crypto.DigestSigner) ([]byte, error) {
	t, err := tx.UnmarshalTransaction(txBytes)
	if err != nil {
		return nil, err
	}

	signed, err := roles.Sign(t, key)
	if err != nil {
		return nil, fmt.Errorf("signing failed: %w", err)
	}
	return signed.Marshal(), nil
}

// ============================================================================
// API Function 5: Combine
// ============================================================================

// Combine reconciles copies of one transaction where each copy's signatures
// are a prefix of the most complete one, and returns that copy.
func Combine(txBytesList [][]byte) ([]byte, error) {
	if len(txBytesList) == 0 {
		return nil, fmt.Errorf("no transactions to combine")
	}

	txs := make([]*tx.Transaction, len(txBytesList))
	for i, b := range txBytesList {
		t, err := tx.UnmarshalTransaction(b)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		txs[i] = t
	}

	combined, err := roles.NewCombiner(txs).Combine()
	if err != nil {
		return nil, err
	}
	return combined.Marshal(), nil
}

// ============================================================================
// API Function 6: ValidateTransaction
// ============================================================================

// ValidateTransaction reports whether every contract of the transaction is
// signed by its owner, with addresses under prefix. Undecodable input is
// invalid.
func ValidateTransaction(txBytes []byte, prefix byte) bool {
	t, err := tx.UnmarshalTransaction(txBytes)
	if err != nil {
		log.Tracef("Rejecting undecodable transaction: %v", err)
		return false
	}
	return roles.NewNetworkValidator(prefix).Validate(t)
}

// ============================================================================
// API Function 7: Extract
// ============================================================================

// Extract checks that the transaction is fully authorized and returns its
// broadcast encoding and id.
func Extract(txBytes []byte, prefix byte) ([]byte, [32]byte, error) {
	t, err := tx.UnmarshalTransaction(txBytes)
	if err != nil {
		return nil, [32]byte{}, err
	}

	extractor := roles.NewTxExtractor(t, roles.NewNetworkValidator(prefix))
	raw, err := extractor.Extract()
	if err != nil {
		return nil, [32]byte{}, err
	}
	return raw, extractor.TxID(), nil
}

// ============================================================================
// API Function 8: Shielded keys
// ============================================================================

// ShieldedKeys holds the public keys derived from a spending key.
type ShieldedKeys struct {
	FullViewingKey     zen.FullViewingKey
	IncomingViewingKey zen.IncomingViewingKey
}

// DeriveShieldedKeys derives the full and incoming viewing keys of sk. The
// expanded spending key is wiped before returning.
func DeriveShieldedKeys(sk zen.SpendingKey, lib zen.ProvingLibrary) (*ShieldedKeys, error) {
	fvk, err := sk.FullViewingKey(lib)
	if err != nil {
		return nil, err
	}

	ivk, err := fvk.IncomingViewingKey(lib)
	if err != nil {
		return nil, err
	}

	return &ShieldedKeys{FullViewingKey: *fvk, IncomingViewingKey: ivk}, nil
}

// NewPaymentAddress derives a fresh diversified address for sk, trying at
// most the configured number of diversifiers.
func NewPaymentAddress(sk zen.SpendingKey, lib zen.ProvingLibrary,
	cfg *config.Config) (zen.PaymentAddress, error) {

	gen := zen.NewDiversifierGenerator(lib, cfg.DiversifierMaxAttempts)
	return zen.NewPaymentAddress(sk, lib, gen)
}

// NewDiversifier draws a valid diversifier.
func NewDiversifier(oracle zen.DiversifierOracle, cfg *config.Config) (zen.Diversifier, error) {
	return zen.NewDiversifierGenerator(oracle, cfg.DiversifierMaxAttempts).Generate()
}

// ParsePaymentRequest parses a payment request URI.
func ParsePaymentRequest(uri string) (*zip321.PaymentRequest, error) {
	return zip321.Parse(uri)
}
