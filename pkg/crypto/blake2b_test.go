package crypto

import (
	"encoding/binary"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"
)

// blake2bReference is a straightforward RFC 7693 BLAKE2b used to cross-check
// the SIMD implementation's personalization handling.
func blake2bReference(personalization []byte, size int, msg []byte) []byte {
	iv := [8]uint64{
		0x6a09e667f3bcc908, 0xbb67ae8584caa73b,
		0x3c6ef372fe94f82b, 0xa54ff53a5f1d36f1,
		0x510e527fade682d1, 0x9b05688c2b3e6c1f,
		0x1f83d9abfb41bd6b, 0x5be0cd19137e2179,
	}
	sigma := [10][16]int{
		{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
		{14, 10, 4, 8, 9, 15, 13, 6, 1, 12, 0, 2, 11, 7, 5, 3},
		{11, 8, 12, 0, 5, 2, 15, 13, 10, 14, 3, 6, 7, 1, 9, 4},
		{7, 9, 3, 1, 13, 12, 11, 14, 2, 6, 5, 10, 4, 0, 15, 8},
		{9, 0, 5, 7, 2, 4, 10, 15, 14, 1, 11, 12, 6, 8, 3, 13},
		{2, 12, 6, 10, 0, 11, 8, 3, 4, 13, 7, 5, 15, 14, 1, 9},
		{12, 5, 1, 15, 14, 13, 4, 10, 0, 7, 6, 3, 9, 2, 8, 11},
		{13, 11, 7, 14, 12, 1, 3, 9, 5, 0, 15, 4, 8, 6, 2, 10},
		{6, 15, 14, 9, 11, 3, 0, 8, 12, 2, 13, 7, 1, 4, 10, 5},
		{10, 2, 8, 4, 7, 6, 1, 5, 15, 11, 9, 14, 3, 12, 13, 0},
	}

	h := iv
	h[0] ^= 0x01010000 ^ uint64(size)
	h[6] ^= binary.LittleEndian.Uint64(personalization[0:8])
	h[7] ^= binary.LittleEndian.Uint64(personalization[8:16])

	compress := func(block []byte, t uint64, final bool) {
		var m [16]uint64
		for i := range m {
			m[i] = binary.LittleEndian.Uint64(block[i*8:])
		}

		var v [16]uint64
		copy(v[:8], h[:])
		copy(v[8:], iv[:])
		v[12] ^= t
		if final {
			v[14] = ^v[14]
		}

		g := func(a, b, c, d int, x, y uint64) {
			v[a] = v[a] + v[b] + x
			v[d] = bits.RotateLeft64(v[d]^v[a], -32)
			v[c] = v[c] + v[d]
			v[b] = bits.RotateLeft64(v[b]^v[c], -24)
			v[a] = v[a] + v[b] + y
			v[d] = bits.RotateLeft64(v[d]^v[a], -16)
			v[c] = v[c] + v[d]
			v[b] = bits.RotateLeft64(v[b]^v[c], -63)
		}

		for r := 0; r < 12; r++ {
			s := sigma[r%10]
			g(0, 4, 8, 12, m[s[0]], m[s[1]])
			g(1, 5, 9, 13, m[s[2]], m[s[3]])
			g(2, 6, 10, 14, m[s[4]], m[s[5]])
			g(3, 7, 11, 15, m[s[6]], m[s[7]])
			g(0, 5, 10, 15, m[s[8]], m[s[9]])
			g(1, 6, 11, 12, m[s[10]], m[s[11]])
			g(2, 7, 8, 13, m[s[12]], m[s[13]])
			g(3, 4, 9, 14, m[s[14]], m[s[15]])
		}

		for i := range h {
			h[i] ^= v[i] ^ v[i+8]
		}
	}

	var t uint64
	for len(msg) > 128 {
		t += 128
		compress(msg[:128], t, false)
		msg = msg[128:]
	}
	var last [128]byte
	copy(last[:], msg)
	t += uint64(len(msg))
	compress(last[:], t, true)

	out := make([]byte, 64)
	for i := range h {
		binary.LittleEndian.PutUint64(out[i*8:], h[i])
	}
	return out[:size]
}

func TestPersonalizedHashMatchesReference(t *testing.T) {
	person := []byte("ZStabila_ExpandS")

	tests := []struct {
		name string
		size int
		msg  []byte
	}{
		{name: "zero seed tag 0", size: 64, msg: make([]byte, 33)},
		{name: "short", size: 32, msg: []byte("abc")},
		{name: "empty", size: 64, msg: nil},
		{name: "multi block", size: 64, msg: make([]byte, 300)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PersonalizedHash(person, tc.size, tc.msg)
			require.NoError(t, err)
			require.Len(t, got, tc.size)
			require.Equal(t, blake2bReference(person, tc.size, tc.msg), got)
		})
	}
}

func TestPersonalizedHashSplitsInput(t *testing.T) {
	person := []byte("ZTxIdHeadersHash")

	whole, err := PersonalizedHash(person, 64, []byte("hello world"))
	require.NoError(t, err)
	parts, err := PersonalizedHash(person, 64, []byte("hello "), []byte("world"))
	require.NoError(t, err)
	require.Equal(t, whole, parts)
}

func TestPersonalizedHashDomainSeparation(t *testing.T) {
	msg := []byte("same input")

	a, err := PersonalizedHash([]byte("ZStabila_ExpandS"), 64, msg)
	require.NoError(t, err)
	b, err := PersonalizedHash([]byte("ZStabila_OtherTg"), 64, msg)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestPersonalizedHashRejectsBadParams(t *testing.T) {
	_, err := PersonalizedHash([]byte("short"), 64, nil)
	require.Error(t, err)

	_, err = PersonalizedHash([]byte("ZStabila_ExpandSeed"), 64, nil)
	require.Error(t, err)

	_, err = PersonalizedHash([]byte("ZStabila_ExpandS"), 65, nil)
	require.Error(t, err)
}
