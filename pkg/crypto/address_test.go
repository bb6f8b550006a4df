package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddressBase58CheckRoundTrip(t *testing.T) {
	key, err := PrivateKeyFromHex(testKeyHex)
	require.NoError(t, err)

	for _, prefix := range []byte{MainNetPrefix, TestNetPrefix} {
		addr := key.Address(prefix)
		require.Equal(t, prefix, addr.Prefix())

		encoded := addr.String()
		decoded, err := DecodeBase58Check(encoded)
		require.NoError(t, err)
		require.Equal(t, addr, decoded)
	}
}

func TestMainNetAddressStartsWithT(t *testing.T) {
	key, err := GeneratePrivateKey()
	require.NoError(t, err)

	// 0x41 followed by 24 more bytes always encodes with a leading 'T'.
	require.Equal(t, byte('T'), key.Address(MainNetPrefix).String()[0])
}

func TestDecodeBase58CheckRejectsCorruption(t *testing.T) {
	key, err := GeneratePrivateKey()
	require.NoError(t, err)

	encoded := []byte(key.Address(MainNetPrefix).String())
	last := len(encoded) - 1
	if encoded[last] == '1' {
		encoded[last] = '2'
	} else {
		encoded[last] = '1'
	}

	_, err = DecodeBase58Check(string(encoded))
	require.Error(t, err)
}

func TestDecodeBase58CheckLength(t *testing.T) {
	_, err := DecodeBase58Check("1111")
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func TestAddressFromBytes(t *testing.T) {
	_, err := AddressFromBytes(make([]byte, 20))
	require.ErrorIs(t, err, ErrInvalidAddress)

	raw := make([]byte, AddressSize)
	raw[0] = MainNetPrefix
	addr, err := AddressFromBytes(raw)
	require.NoError(t, err)
	require.True(t, addr.Equal(raw))
	require.False(t, addr.Equal(raw[:20]))
}
