// Package tx implements the Stabila transaction data model and its
// canonical wire encoding.
//
// A transaction is a list of contracts (each a typed, packed parameter
// naming the account that must authorize it) plus metadata, followed by one
// signature per contract. Only the raw data section is hashed for signing;
// signatures are appended afterwards and never cover each other.
//
// The encoding is byte-compatible with the network's protocol buffer
// definitions (protocol.Transaction), so hashes computed here match those of
// every other node.
package tx

import (
	"github.com/suffix-labs/stabila-sign/pkg/crypto"
)

// Transaction is a raw data section plus the signatures over it.
//
// Transactions are treated as immutable values: every operation that
// changes one works on a Clone and returns the copy.
type Transaction struct {
	RawData    RawData  // Hashed and signed section
	Signatures [][]byte // One 65-byte signature per contract, in contract order

	wireState
}

// RawData is the signed section of a transaction.
//
// Times are Unix milliseconds.
type RawData struct {
	RefBlockBytes []byte     // Bytes 6..8 of the reference block height
	RefBlockNum   int64      // Reference block height (informational)
	RefBlockHash  []byte     // Bytes 8..16 of the reference block id
	Expiration    int64      // Time after which the transaction is rejected
	Auths         [][]byte   // Encoded authority entries, carried opaquely
	Data          []byte     // Free-form memo
	Contracts     []Contract // Operations, each authorized by one signature
	Scripts       []byte     // Reserved
	Timestamp     int64      // Creation time
	FeeLimit      int64      // Energy fee cap for smart contract calls

	wireState
}

// Contract is one typed operation within a transaction.
type Contract struct {
	Type         ContractType // Tag selecting the parameter message
	Parameter    Any          // Packed parameter message
	Provider     []byte
	ContractName []byte
	PermissionID int32 // Account permission used to authorize (0 = owner)

	wireState
}

// Any is a packed protobuf message (google.protobuf.Any).
type Any struct {
	TypeURL string
	Value   []byte

	wireState
}

// DefaultPermissionID is the owner permission every account starts with.
const DefaultPermissionID int32 = 0

func (t *Transaction) fields() []field {
	return []field{
		{1, kindMessage, &t.RawData},
		{2, kindRepeatedBytes, &t.Signatures},
	}
}

func (r *RawData) fields() []field {
	return []field{
		{1, kindBytes, &r.RefBlockBytes},
		{3, kindInt64, &r.RefBlockNum},
		{4, kindBytes, &r.RefBlockHash},
		{8, kindInt64, &r.Expiration},
		{9, kindRepeatedBytes, &r.Auths},
		{10, kindBytes, &r.Data},
		{11, kindMessages, repeated(&r.Contracts)},
		{12, kindBytes, &r.Scripts},
		{14, kindInt64, &r.Timestamp},
		{18, kindInt64, &r.FeeLimit},
	}
}

func (c *Contract) fields() []field {
	return []field{
		{1, kindInt32, (*int32)(&c.Type)},
		{2, kindMessage, &c.Parameter},
		{3, kindBytes, &c.Provider},
		{4, kindBytes, &c.ContractName},
		{5, kindInt32, &c.PermissionID},
	}
}

func (a *Any) fields() []field {
	return []field{
		{1, kindString, &a.TypeURL},
		{2, kindBytes, &a.Value},
	}
}

// Clone returns a deep copy of the transaction.
func (t *Transaction) Clone() *Transaction {
	out := &Transaction{
		RawData:    t.RawData.Clone(),
		Signatures: cloneByteSlices(t.Signatures),
		wireState:  t.wireState.clone(),
	}
	return out
}

// Clone returns a deep copy of the raw data.
func (r RawData) Clone() RawData {
	out := r
	out.RefBlockBytes = cloneBytes(r.RefBlockBytes)
	out.RefBlockHash = cloneBytes(r.RefBlockHash)
	out.Auths = cloneByteSlices(r.Auths)
	out.Data = cloneBytes(r.Data)
	out.Scripts = cloneBytes(r.Scripts)
	out.wireState = r.wireState.clone()
	if r.Contracts != nil {
		out.Contracts = make([]Contract, len(r.Contracts))
		for i, c := range r.Contracts {
			out.Contracts[i] = c.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the contract.
func (c Contract) Clone() Contract {
	out := c
	out.Parameter.Value = cloneBytes(c.Parameter.Value)
	out.Parameter.wireState = c.Parameter.wireState.clone()
	out.wireState = c.wireState.clone()
	out.Provider = cloneBytes(c.Provider)
	out.ContractName = cloneBytes(c.ContractName)
	return out
}

// SignatureCount returns the number of signatures attached.
func (t *Transaction) SignatureCount() int {
	return len(t.Signatures)
}

// ContractCount returns the number of contracts in the raw data.
func (t *Transaction) ContractCount() int {
	return len(t.RawData.Contracts)
}

// IsSigned reports whether at least one signature has been attached. Raw
// data must not change once this is true.
func (t *Transaction) IsSigned() bool {
	return len(t.Signatures) > 0
}

// ID returns the transaction id: SHA-256 of the raw data encoding. It is
// also the digest every signature covers.
func (t *Transaction) ID() [32]byte {
	return crypto.Hash(t.RawData.Marshal())
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte{}, b...)
}

func cloneByteSlices(in [][]byte) [][]byte {
	if in == nil {
		return nil
	}
	out := make([][]byte, len(in))
	for i, b := range in {
		out[i] = cloneBytes(b)
	}
	return out
}
