// Package bufferutil contains small helpers for working with byte buffers:
// zero-copy views, hex conversion, concatenation, splitting and comparison.
//
// Split and ToBytes never copy, the returned slices share memory with their
// input. Concat always allocates a fresh buffer.
//
// # Comparison
//
// Equal compares buffers in 4-byte words and visits every position of every
// input regardless of mismatches, so its running time depends only on the
// buffer lengths. Use it for MACs, tags and anything else derived from secret
// material. EqualFast returns on the first mismatching word and is meant for
// non-sensitive data.
//
//	iv, ct := bufferutil.Split(buf, 16)[0], bufferutil.Split(buf, 16)[1]
//	ok := bufferutil.Equal(expectedTag, tag)
package bufferutil
