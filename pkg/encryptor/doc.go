// Package encryptor encrypts cookie values with AES-GCM and decrypts them
// against an ordered ring of keys.
//
// # Keys
//
// A Key wraps an AES-128/192/256 cipher in GCM mode with a 16-byte nonce.
// Keys are built from raw material with NewKey or from a passphrase with
// DeriveKey (PBKDF2). A KeyRing is the active key followed by keys that were
// used in the past; it never changes after construction.
//
// # Format
//
// Encrypt draws a fresh random IV for every call and returns
// base64url(IV ‖ ciphertext ‖ tag), see package envelope. Decrypt decodes the
// envelope once and tries every key of the ring in order. When no key can
// authenticate the ciphertext a *DecryptionError is returned holding one
// cause per key. A wrong key and tampered data are indistinguishable here.
//
// # Usage
//
//	key, err := encryptor.DeriveKey(encryptor.DeriveOptions{
//	    Secret: []byte(os.Getenv("COOKIE_SECRET")),
//	    Salt:   salt,
//	})
//	if err != nil {
//	    return err
//	}
//	ring, _ := encryptor.NewKeyRing(key, oldKey)
//
//	text, err := ring.Encrypt("user-42")
//	value, err := ring.Decrypt(text)
//
// # Default salt
//
// DeriveKey falls back to DefaultSalt when no salt is given. That salt is a
// public constant shared by every deployment, so passphrases derived with it
// are easier to attack with precomputed tables. Pass a per-deployment random
// salt whenever possible.
package encryptor
