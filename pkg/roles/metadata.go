package roles

import (
	"strconv"
	"strings"
	"time"

	"github.com/lightningnetwork/lnd/clock"

	"github.com/suffix-labs/stabila-sign/pkg/crypto"
	"github.com/suffix-labs/stabila-sign/pkg/tx"
)

// SigningHash returns the digest every signature on t covers: SHA-256 of the
// raw data encoding. Signatures are not part of the preimage.
func SigningHash(t *tx.Transaction) [32]byte {
	return crypto.Hash(t.RawData.Marshal())
}

// SetTimestamp stamps t with the current time in milliseconds. A signed
// transaction is returned unchanged, since restamping would invalidate its
// signatures.
func SetTimestamp(t *tx.Transaction, clk clock.Clock) *tx.Transaction {
	if t.IsSigned() {
		log.Tracef("Not restamping transaction with %d signature(s)",
			t.SignatureCount())
		return t
	}

	out := t.Clone()
	out.RawData.Timestamp = toMillis(clk.Now())
	return out
}

// SetExpiration sets t to expire window after the current time. A signed
// transaction is returned unchanged.
func SetExpiration(t *tx.Transaction, clk clock.Clock,
	window time.Duration) *tx.Transaction {

	if t.IsSigned() {
		log.Tracef("Not changing expiration of transaction with %d "+
			"signature(s)", t.SignatureCount())
		return t
	}

	out := t.Clone()
	out.RawData.Expiration = toMillis(clk.Now().Add(window))
	return out
}

// NeedsPermissionID reports whether ApplyPermissionID would change t: it is
// unsigned, has contracts, and the first contract still uses the owner
// permission.
func NeedsPermissionID(t *tx.Transaction) bool {
	return !t.IsSigned() && t.ContractCount() > 0 &&
		t.RawData.Contracts[0].PermissionID == tx.DefaultPermissionID
}

// ApplyPermissionID sets the permission id of the first contract. The other
// contracts are left as they are. Signed transactions, transactions whose
// first contract already names a permission, and id 0 all return t
// unchanged.
func ApplyPermissionID(t *tx.Transaction, id int32) *tx.Transaction {
	if !NeedsPermissionID(t) || id == tx.DefaultPermissionID {
		return t
	}

	out := t.Clone()
	out.RawData.Contracts[0].PermissionID = id
	return out
}

// ParsePermissionChoice interprets an answer to the permission prompt. The
// first word is read: "y" (any case) keeps the owner permission, a
// non-negative integer selects that permission id, and anything else
// cancels with tx.ErrUserCancelled.
func ParsePermissionChoice(answer string) (int32, error) {
	words := strings.Fields(answer)
	if len(words) == 0 {
		return 0, tx.ErrUserCancelled
	}

	word := words[0]
	if strings.EqualFold(word, "y") {
		return tx.DefaultPermissionID, nil
	}

	id, err := strconv.ParseInt(word, 10, 32)
	if err != nil || id < 0 {
		return 0, tx.ErrUserCancelled
	}
	return int32(id), nil
}

// ApplyPermissionChoice parses answer and applies the chosen permission id.
func ApplyPermissionChoice(t *tx.Transaction, answer string) (*tx.Transaction, error) {
	id, err := ParsePermissionChoice(answer)
	if err != nil {
		return nil, err
	}
	return ApplyPermissionID(t, id), nil
}
