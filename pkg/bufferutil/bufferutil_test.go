package bufferutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/enccookie/pkg/bufferutil"
)

func TestToBytes(t *testing.T) {
	t.Parallel()

	t.Run("slice is returned without copy", func(t *testing.T) {
		t.Parallel()
		src := []byte{1, 2, 3}
		got := bufferutil.ToBytes(src)
		require.Equal(t, src, got)
		got[0] = 9
		assert.Equal(t, byte(9), src[0])
	})

	t.Run("view covers offset and length", func(t *testing.T) {
		t.Parallel()
		shared := []byte{0, 1, 2, 3, 4, 5}
		got := bufferutil.ToBytes(bufferutil.View{Buffer: shared, Offset: 2, Length: 3})
		require.Equal(t, []byte{2, 3, 4}, got)
		assert.Equal(t, 3, cap(got))

		got[0] = 7
		assert.Equal(t, byte(7), shared[2])
	})

	t.Run("string", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []byte("héllo"), bufferutil.ToBytes("héllo"))
	})
}

func TestHex(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "00ff10ab", bufferutil.HexEncode([]byte{0x00, 0xff, 0x10, 0xab}))
	assert.Equal(t, "", bufferutil.HexEncode(nil))

	tests := []struct {
		name string
		in   string
		want []byte
	}{
		{"lowercase", "deadbeef", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"uppercase", "DEADBEEF", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"separators ignored", "de:ad be-ef", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"odd trailing digit", "abc", []byte{0xab, 0x0c}},
		{"no hex", "xyz", []byte{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, bufferutil.HexDecode(tt.in))
		})
	}

	raw := []byte("round trip \x00\x01\xfe")
	assert.Equal(t, raw, bufferutil.HexDecode(bufferutil.HexEncode(raw)))
}

func TestConcat(t *testing.T) {
	t.Parallel()

	a := []byte{1, 2}
	b := []byte{3}
	out := bufferutil.Concat(a, nil, b)
	require.Equal(t, []byte{1, 2, 3}, out)

	out[0] = 42
	assert.Equal(t, byte(1), a[0], "concat must not share storage")
	assert.Empty(t, bufferutil.Concat())
}

func TestSplit(t *testing.T) {
	t.Parallel()

	a := []byte("initialvector!!!")
	b := []byte("ciphertext")
	parts := bufferutil.Split(bufferutil.Concat(a, b), len(a))
	require.Len(t, parts, 2)
	assert.Equal(t, a, parts[0])
	assert.Equal(t, b, parts[1])

	buf := []byte{0, 1, 2, 3, 4, 5}
	parts = bufferutil.Split(buf, 1, 4)
	require.Len(t, parts, 3)
	assert.Equal(t, []byte{0}, parts[0])
	assert.Equal(t, []byte{1, 2, 3}, parts[1])
	assert.Equal(t, []byte{4, 5}, parts[2])

	parts[1][0] = 9
	assert.Equal(t, byte(9), buf[1], "split returns views")

	parts = bufferutil.Split(buf)
	require.Len(t, parts, 1)
	assert.Equal(t, buf, parts[0])
}

func TestEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		a      []byte
		others [][]byte
		want   bool
	}{
		{"same", []byte("abcdefgh"), [][]byte{[]byte("abcdefgh")}, true},
		{"different word", []byte("abcdefgh"), [][]byte{[]byte("abcdefgX")}, false},
		{"length mismatch", []byte("abcd"), [][]byte{[]byte("abcde")}, false},
		{"unaligned tail equal", []byte("abcdefg"), [][]byte{[]byte("abcdefg")}, true},
		{"unaligned tail differs", []byte("abcdefg"), [][]byte{[]byte("abcdefX")}, false},
		{"empty", []byte{}, [][]byte{nil}, true},
		{"many equal", []byte("1234"), [][]byte{[]byte("1234"), []byte("1234")}, true},
		{"one of many differs", []byte("1234"), [][]byte{[]byte("1234"), []byte("1235")}, false},
		{"no others", []byte("x"), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, bufferutil.Equal(tt.a, tt.others...))
			assert.Equal(t, tt.want, bufferutil.EqualFast(tt.a, tt.others...))
		})
	}
}
