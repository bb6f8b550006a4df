package roles

import (
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/stretchr/testify/require"

	"github.com/suffix-labs/stabila-sign/pkg/crypto"
	"github.com/suffix-labs/stabila-sign/pkg/tx"
)

func TestSigningHashCoversRawDataOnly(t *testing.T) {
	key := testKey(t, "alice")
	unsigned := unsignedTransaction(t, key.Address(crypto.MainNetPrefix))

	hash := SigningHash(unsigned)
	require.Equal(t, crypto.Hash(unsigned.RawData.Marshal()), hash)
	require.Equal(t, unsigned.ID(), hash)

	signed, err := Sign(unsigned, key)
	require.NoError(t, err)
	require.Equal(t, hash, SigningHash(signed))

	changed := unsigned.Clone()
	changed.RawData.FeeLimit++
	require.NotEqual(t, hash, SigningHash(changed))
}

func TestSetTimestamp(t *testing.T) {
	key := testKey(t, "alice")
	unsigned := unsignedTransaction(t, key.Address(crypto.MainNetPrefix))

	clk := clock.NewTestClock(testTime)
	clk.SetTime(testTime.Add(90 * time.Second))

	stamped := SetTimestamp(unsigned, clk)
	require.Equal(t, testTime.Add(90*time.Second).UnixNano()/1e6,
		stamped.RawData.Timestamp)

	// The input value is not modified.
	require.Equal(t, testTime.UnixNano()/1e6, unsigned.RawData.Timestamp)

	// Restamping a signed transaction would invalidate its signature, so it
	// is returned unchanged, the same way SetExpiration behaves.
	signed, err := Sign(stamped, key)
	require.NoError(t, err)
	clk.SetTime(testTime.Add(time.Hour))
	require.Same(t, signed, SetTimestamp(signed, clk))
	require.True(t, mainnetValidator().Validate(SetTimestamp(signed, clk)))
}

func TestSetExpiration(t *testing.T) {
	key := testKey(t, "alice")
	unsigned := unsignedTransaction(t, key.Address(crypto.MainNetPrefix))
	clk := clock.NewTestClock(testTime.Add(time.Minute))

	updated := SetExpiration(unsigned, clk, DefaultExpirationWindow)
	require.Equal(t,
		testTime.Add(time.Minute+6*time.Hour).UnixNano()/1e6,
		updated.RawData.Expiration)

	signed, err := Sign(updated, key)
	require.NoError(t, err)
	before := signed.Marshal()

	got := SetExpiration(signed, clock.NewTestClock(testTime.Add(48*time.Hour)),
		time.Hour)
	require.Same(t, signed, got)
	require.Equal(t, before, got.Marshal())
}

func TestApplyPermissionID(t *testing.T) {
	alice := testKey(t, "alice").Address(crypto.MainNetPrefix)
	bob := testKey(t, "bob").Address(crypto.MainNetPrefix)
	unsigned := unsignedTransaction(t, alice, bob)

	require.True(t, NeedsPermissionID(unsigned))

	updated := ApplyPermissionID(unsigned, 2)
	require.Equal(t, int32(2), updated.RawData.Contracts[0].PermissionID)
	require.Equal(t, int32(0), updated.RawData.Contracts[1].PermissionID)
	require.Equal(t, 2, updated.ContractCount())
	require.Equal(t, int32(0), unsigned.RawData.Contracts[0].PermissionID)

	// Already assigned.
	require.False(t, NeedsPermissionID(updated))
	require.Same(t, updated, ApplyPermissionID(updated, 3))

	// Default id is a no-op.
	require.Same(t, unsigned, ApplyPermissionID(unsigned, 0))

	// Signed.
	signed, err := Sign(unsigned, testKey(t, "alice"))
	require.NoError(t, err)
	require.Same(t, signed, ApplyPermissionID(signed, 2))

	// No contracts.
	empty := &tx.Transaction{}
	require.Same(t, empty, ApplyPermissionID(empty, 2))
}

func TestParsePermissionChoice(t *testing.T) {
	tests := []struct {
		answer  string
		want    int32
		wantErr bool
	}{
		{answer: "y", want: 0},
		{answer: "Y", want: 0},
		{answer: "  y please", want: 0},
		{answer: "2", want: 2},
		{answer: "  7 \n", want: 7},
		{answer: "0", want: 0},
		{answer: "", wantErr: true},
		{answer: "n", wantErr: true},
		{answer: "yes", wantErr: true},
		{answer: "-1", wantErr: true},
		{answer: "99999999999", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParsePermissionChoice(tc.answer)
		if tc.wantErr {
			require.ErrorIs(t, err, tx.ErrUserCancelled, "answer %q", tc.answer)
			continue
		}
		require.NoError(t, err, "answer %q", tc.answer)
		require.Equal(t, tc.want, got, "answer %q", tc.answer)
	}
}

func TestApplyPermissionChoice(t *testing.T) {
	alice := testKey(t, "alice").Address(crypto.MainNetPrefix)
	unsigned := unsignedTransaction(t, alice)

	updated, err := ApplyPermissionChoice(unsigned, "3")
	require.NoError(t, err)
	require.Equal(t, int32(3), updated.RawData.Contracts[0].PermissionID)

	same, err := ApplyPermissionChoice(unsigned, "y")
	require.NoError(t, err)
	require.Same(t, unsigned, same)

	_, err = ApplyPermissionChoice(unsigned, "no")
	require.ErrorIs(t, err, tx.ErrUserCancelled)
}
