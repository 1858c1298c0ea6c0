package bufferutil

import (
	"encoding/binary"
	"encoding/hex"
	"regexp"
	"strconv"
)

// View is a window of Length bytes starting at Offset into a shared buffer.
type View struct {
	Buffer []byte
	Offset int
	Length int
}

// Bytes returns the viewed bytes without copying.
// The result is capped so appends never write into the rest of Buffer.
func (v View) Bytes() []byte {
	end := v.Offset + v.Length
	return v.Buffer[v.Offset:end:end]
}

// Source is any buffer-like value accepted by ToBytes.
type Source interface {
	[]byte | View | string
}

// ToBytes normalizes src into a byte slice covering exactly its logical bytes.
// Byte slices and views are returned as-is; strings are the only case that copies.
func ToBytes[S Source](src S) []byte {
	switch v := any(src).(type) {
	case []byte:
		return v
	case View:
		return v.Bytes()
	case string:
		return []byte(v)
	}
	return nil
}

var hexPairs = regexp.MustCompile(`[0-9a-fA-F]{1,2}`)

// HexEncode returns two lowercase hex characters per byte.
func HexEncode(b []byte) string {
	return hex.EncodeToString(b)
}

// HexDecode parses every run of one or two hex digits in s as a byte.
// Characters that are not hex digits act as separators and are skipped,
// so "de:ad be-ef" decodes the same as "deadbeef".
func HexDecode(s string) []byte {
	pairs := hexPairs.FindAllString(s, -1)
	out := make([]byte, len(pairs))
	for i, p := range pairs {
		// A 1-2 digit hex run always fits in a byte.
		n, _ := strconv.ParseUint(p, 16, 8)
		out[i] = byte(n)
	}
	return out
}

// Concat returns a new buffer holding the inputs back to back.
func Concat(bufs ...[]byte) []byte {
	size := 0
	for _, b := range bufs {
		size += len(b)
	}

	out := make([]byte, size)
	i := 0
	for _, b := range bufs {
		i += copy(out[i:], b)
	}
	return out
}

// Split partitions buf at the given ascending offsets and returns
// len(offsets)+1 sub-slices sharing buf's memory.
// Panics if the offsets are out of range or not ascending, like slicing does.
func Split(buf []byte, offsets ...int) [][]byte {
	parts := make([][]byte, len(offsets)+1)
	prev := 0
	for i, off := range offsets {
		parts[i] = buf[prev:off:off]
		prev = off
	}
	parts[len(offsets)] = buf[prev:]
	return parts
}

// Equal reports whether every buffer in others is identical to a.
// Differing lengths return false immediately. Otherwise all words of all
// inputs are compared without early exit.
func Equal(a []byte, others ...[]byte) bool {
	if !sameLength(a, others) {
		return false
	}

	words := len(a) / 4 * 4
	res := true
	for _, b := range others {
		for i := 0; i < words; i += 4 {
			r := binary.BigEndian.Uint32(a[i:]) == binary.BigEndian.Uint32(b[i:])
			res = r && res
		}
		for i := words; i < len(a); i++ {
			r := a[i] == b[i]
			res = r && res
		}
	}
	return res
}

// EqualFast is like Equal but stops at the first mismatch.
// Not suitable for secret data.
func EqualFast(a []byte, others ...[]byte) bool {
	if !sameLength(a, others) {
		return false
	}

	words := len(a) / 4 * 4
	for _, b := range others {
		for i := 0; i < words; i += 4 {
			if binary.BigEndian.Uint32(a[i:]) != binary.BigEndian.Uint32(b[i:]) {
				return false
			}
		}
		for i := words; i < len(a); i++ {
			if a[i] != b[i] {
				return false
			}
		}
	}
	return true
}

func sameLength(a []byte, others [][]byte) bool {
	for _, b := range others {
		if len(a) != len(b) {
			return false
		}
	}
	return true
}
