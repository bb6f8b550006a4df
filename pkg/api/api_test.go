package api

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/stabila-sign/pkg/config"
	"github.com/suffix-labs/stabila-sign/pkg/crypto"
	"github.com/suffix-labs/stabila-sign/pkg/roles"
	"github.com/suffix-labs/stabila-sign/pkg/tx"
	"github.com/suffix-labs/stabila-sign/pkg/zen"
)

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testKey(t *testing.T, passphrase string) *crypto.PrivateKey {
	key, err := crypto.PrivateKeyFromPassphrase([]byte(passphrase))
	require.NoError(t, err)
	return key
}

func proposeTransfer(t *testing.T, owner crypto.Address, recipients int) []byte {
	uri := "stabila:?"
	for i := 1; i <= recipients; i++ {
		to := owner
		to[20] ^= byte(i)
		if i > 1 {
			uri += "&"
		}
		uri += fmt.Sprintf("address.%d=%s&amount.%d=%d", i, to, i, i)
	}

	txBytes, err := ProposeTransfer(&TransferProposal{
		Owner:   owner,
		Request: uri,
	}, config.DefaultConfig(), clock.NewTestClock(testTime))
	require.NoError(t, err)
	return txBytes
}

// TestTransferLifecycle covers propose, sign, validate, and extract.
func TestTransferLifecycle(t *testing.T) {
	key := testKey(t, "alice")
	owner := key.Address(crypto.MainNetPrefix)

	unsigned := proposeTransfer(t, owner, 1)
	require.False(t, ValidateTransaction(unsigned, crypto.MainNetPrefix))

	_, _, err := Extract(unsigned, crypto.MainNetPrefix)
	require.ErrorIs(t, err, roles.ErrIncomplete)

	hash, err := GetSigningHash(unsigned)
	require.NoError(t, err)

	signed, err := AppendSignature(unsigned, key)
	require.NoError(t, err)
	require.True(t, ValidateTransaction(signed, crypto.MainNetPrefix))
	require.False(t, ValidateTransaction(signed, crypto.TestNetPrefix))

	// Signing never changes the hash.
	signedHash, err := GetSigningHash(signed)
	require.NoError(t, err)
	require.Equal(t, hash, signedHash)

	raw, id, err := Extract(signed, crypto.MainNetPrefix)
	require.NoError(t, err)
	require.Equal(t, hash, id)
	require.Equal(t, signed, raw)

	decoded, err := tx.UnmarshalTransaction(raw)
	require.NoError(t, err)
	require.Equal(t, testTime.UnixMilli(), decoded.RawData.Timestamp)
	require.Equal(t, testTime.Add(roles.DefaultExpirationWindow).UnixMilli(),
		decoded.RawData.Expiration)
}

func TestProposeTransferCarriesMemo(t *testing.T) {
	owner := testKey(t, "alice").Address(crypto.MainNetPrefix)
	to := testKey(t, "bob").Address(crypto.MainNetPrefix)

	txBytes, err := ProposeTransfer(&TransferProposal{
		Owner:   owner,
		Request: "stabila:" + to.String() + "?amount=0.25&memo=rent",
		RefBlock: &roles.ReferenceBlock{
			Number: 0x0102,
			ID:     [32]byte{8: 0xaa, 15: 0xbb},
		},
	}, config.DefaultConfig(), clock.NewTestClock(testTime))
	require.NoError(t, err)

	decoded, err := tx.UnmarshalTransaction(txBytes)
	require.NoError(t, err)
	require.Equal(t, []byte("rent"), decoded.RawData.Data)
	require.Equal(t, []byte{0x01, 0x02}, decoded.RawData.RefBlockBytes)
	require.Len(t, decoded.RawData.RefBlockHash, 8)

	param, err := tx.UnpackParameter(decoded.RawData.Contracts[0])
	require.NoError(t, err)
	transfer, ok := param.(*tx.Transfer)
	require.True(t, ok)
	require.Equal(t, int64(250_000), transfer.Amount)
	require.Equal(t, to.Bytes(), transfer.ToAddress)
}

func TestProposeTransferRejectsBadRequests(t *testing.T) {
	owner := testKey(t, "alice").Address(crypto.MainNetPrefix)
	to := testKey(t, "bob").Address(crypto.MainNetPrefix)

	tests := []struct {
		name    string
		request string
	}{
		{"no amount", "stabila:" + to.String()},
		{"bad address", "stabila:notanaddress?amount=1"},
		{"zero amount", "stabila:" + to.String() + "?amount=0"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ProposeTransfer(&TransferProposal{
				Owner:   owner,
				Request: test.request,
			}, config.DefaultConfig(), clock.NewTestClock(testTime))
			require.Error(t, err)
		})
	}
}

// TestCombinePicksMostCompleteCopy combines a copy with the copies it
// extends.
func TestCombinePicksMostCompleteCopy(t *testing.T) {
	key := testKey(t, "alice")
	unsigned := proposeTransfer(t, key.Address(crypto.MainNetPrefix), 2)

	once, err := AppendSignature(unsigned, key)
	require.NoError(t, err)
	twice, err := AppendSignature(once, key)
	require.NoError(t, err)

	combined, err := Combine([][]byte{once, twice, unsigned})
	require.NoError(t, err)
	require.Equal(t, twice, combined)
	require.True(t, ValidateTransaction(combined, crypto.MainNetPrefix))

	_, err = Combine(nil)
	require.Error(t, err)

	_, err = Combine([][]byte{once, {0xff}})
	require.ErrorIs(t, err, tx.ErrMalformedTransaction)

	other := proposeTransfer(t, testKey(t, "bob").Address(crypto.MainNetPrefix), 2)
	_, err = Combine([][]byte{once, other})
	require.ErrorIs(t, err, roles.ErrIncompatibleTransactions)
}

func TestSetPermissionID(t *testing.T) {
	key := testKey(t, "alice")
	unsigned := proposeTransfer(t, key.Address(crypto.MainNetPrefix), 1)

	withID, err := SetPermissionID(unsigned, 2)
	require.NoError(t, err)

	decoded, err := tx.UnmarshalTransaction(withID)
	require.NoError(t, err)
	require.Equal(t, int32(2), decoded.RawData.Contracts[0].PermissionID)

	// The permission id is part of the signed data.
	before, err := GetSigningHash(unsigned)
	require.NoError(t, err)
	after, err := GetSigningHash(withID)
	require.NoError(t, err)
	require.NotEqual(t, before, after)

	// Signed transactions are left alone.
	signed, err := AppendSignature(unsigned, key)
	require.NoError(t, err)
	unchanged, err := SetPermissionID(signed, 2)
	require.NoError(t, err)
	require.Equal(t, signed, unchanged)
}

func TestMalformedInput(t *testing.T) {
	garbage := []byte{0x0a, 0xff}

	_, err := GetSigningHash(garbage)
	require.ErrorIs(t, err, tx.ErrMalformedTransaction)

	_, err = AppendSignature(garbage, testKey(t, "alice"))
	require.ErrorIs(t, err, tx.ErrMalformedTransaction)

	require.False(t, ValidateTransaction(garbage, crypto.MainNetPrefix))
	require.False(t, ValidateTransaction(nil, crypto.MainNetPrefix))
}

// hashLibrary replaces point operations with domain-separated hashes.
type hashLibrary struct {
	err error
}

func (h *hashLibrary) ToScalar(wide [64]byte) ([32]byte, error) {
	return zen.ToScalar(wide), nil
}

func (h *hashLibrary) CheckDiversifier(d zen.Diversifier) bool {
	return d[0]%4 == 0
}

func (h *hashLibrary) AskToAk(ask [32]byte) ([32]byte, error) {
	return crypto.Hash(append([]byte("ak"), ask[:]...)), h.err
}

func (h *hashLibrary) NskToNk(nsk [32]byte) ([32]byte, error) {
	return crypto.Hash(append([]byte("nk"), nsk[:]...)), nil
}

func (h *hashLibrary) CrhIvk(ak, nk [32]byte) ([32]byte, error) {
	return crypto.Hash(append(ak[:], nk[:]...)), nil
}

func (h *hashLibrary) IvkToPkd(ivk [32]byte, d zen.Diversifier) ([32]byte, error) {
	return crypto.Hash(append(ivk[:], d[:]...)), nil
}

func TestDeriveShieldedKeys(t *testing.T) {
	var sk zen.SpendingKey
	sk[0] = 7

	keys, err := DeriveShieldedKeys(sk, &hashLibrary{})
	require.NoError(t, err)

	esk, err := sk.Expand(nil)
	require.NoError(t, err)
	require.Equal(t, esk.Ovk, keys.FullViewingKey.Ovk)
	require.Equal(t, crypto.Hash(append([]byte("ak"), esk.Ask[:]...)),
		keys.FullViewingKey.Ak)

	ivk := crypto.Hash(append(keys.FullViewingKey.Ak[:], keys.FullViewingKey.Nk[:]...))
	require.Equal(t, zen.IncomingViewingKey(ivk), keys.IncomingViewingKey)

	errPoint := errors.New("point failure")
	_, err = DeriveShieldedKeys(sk, &hashLibrary{err: errPoint})
	require.ErrorIs(t, err, zen.ErrKeyDerivationFailed)
	require.ErrorIs(t, err, errPoint)
}

func TestNewPaymentAddress(t *testing.T) {
	var sk zen.SpendingKey
	sk[31] = 1
	lib := &hashLibrary{}

	addr, err := NewPaymentAddress(sk, lib, config.DefaultConfig())
	require.NoError(t, err)
	require.True(t, lib.CheckDiversifier(addr.D))

	keys, err := DeriveShieldedKeys(sk, lib)
	require.NoError(t, err)
	expected, err := keys.IncomingViewingKey.Address(lib, addr.D)
	require.NoError(t, err)
	require.Equal(t, expected, addr)

	d, err := NewDiversifier(lib, config.DefaultConfig())
	require.NoError(t, err)
	require.True(t, lib.CheckDiversifier(d))
}
