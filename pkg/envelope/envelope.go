// Package envelope serializes an (IV, ciphertext) pair into the text form
// stored in encrypted cookies: base64url(IV ‖ ciphertext), without padding.
package envelope

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/dmitrymomot/enccookie/pkg/bufferutil"
)

// IVSize is the length of the initialization vector at the head of every envelope.
const IVSize = 16

// ErrMalformed is returned for text that cannot be an envelope.
var ErrMalformed = errors.New("envelope.malformed")

// Encode joins iv and ciphertext and returns them as unpadded base64url text.
func Encode(iv, ciphertext []byte) string {
	return base64.RawURLEncoding.EncodeToString(bufferutil.Concat(iv, ciphertext))
}

// Decode reverses Encode. Padded input and the standard base64 alphabet are
// accepted as well. The returned slices share one backing buffer.
func Decode(text string) (iv, ciphertext []byte, err error) {
	buf, err := base64.RawURLEncoding.DecodeString(normalize(text))
	if err != nil {
		return nil, nil, errors.Join(ErrMalformed, err)
	}
	if len(buf) < IVSize {
		return nil, nil, ErrMalformed
	}

	parts := bufferutil.Split(buf, IVSize)
	return parts[0], parts[1], nil
}

var stdToURL = strings.NewReplacer("+", "-", "/", "_")

func normalize(text string) string {
	return stdToURL.Replace(strings.TrimRight(text, "="))
}
