package tx

import (
	"encoding/hex"
	"fmt"
)

// Marshal returns the canonical encoding of the raw data. Its SHA-256 is the
// signing hash.
func (r RawData) Marshal() []byte {
	return marshalMessage(nil, &r)
}

// Marshal returns the canonical encoding of the full transaction, signatures
// included. This is the form broadcast to the network.
func (t *Transaction) Marshal() []byte {
	return marshalMessage(nil, t)
}

// Hex returns the hex encoding of Marshal.
func (t *Transaction) Hex() string {
	return hex.EncodeToString(t.Marshal())
}

// UnmarshalTransaction decodes a serialized transaction. Unknown fields are
// skipped; contract parameters are kept packed until UnpackParameter.
func UnmarshalTransaction(data []byte) (*Transaction, error) {
	if len(data) == 0 {
		return nil, &ParseError{Message: "empty input"}
	}

	t := &Transaction{}
	if err := unmarshalMessage(data, t); err != nil {
		return nil, &ParseError{Message: "decode transaction", Cause: err}
	}
	return t, nil
}

// UnmarshalTransactionHex decodes a hex-encoded serialized transaction.
func UnmarshalTransactionHex(s string) (*Transaction, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, &ParseError{Message: "decode hex", Cause: err}
	}
	return UnmarshalTransaction(data)
}

// UnmarshalRawData decodes a serialized raw data section.
func UnmarshalRawData(data []byte) (RawData, error) {
	var r RawData
	if err := unmarshalMessage(data, &r); err != nil {
		return RawData{}, &ParseError{
			Message: fmt.Sprintf("decode raw data (%d bytes)", len(data)),
			Cause:   err,
		}
	}
	return r, nil
}
