// Package cookiestore encrypts cookie values on top of any cookie store.
//
// A Store is the plain backend: it keeps Items by name and knows nothing about
// encryption. Backends live in sub-packages:
//
//   - memstore keeps cookies in process memory and publishes change events
//   - httpstore reads request cookies and queues Set-Cookie headers
//   - redisstore, mongostore and pgstore persist cookies server side
//
// EncryptedStore wraps a Store. Values are sealed with AES-GCM by the active
// key of an encryptor.KeyRing and kept under the logical name plus ".enc";
// reads try every key of the ring so rotated keys keep working.
//
//	ring, err := keysource.Load()
//	if err != nil {
//	    return err
//	}
//	cookies, err := cookiestore.New(memstore.New(), ring)
//	if err != nil {
//	    return err
//	}
//	if err := cookies.SetValue(ctx, "session", "abc"); err != nil {
//	    return err
//	}
//	item, err := cookies.Get(ctx, cookiestore.Name("session"))
//
// Only Name selectors are supported. A Query selector returns
// ErrUnsupportedOverload, as does a non-nil selector passed to GetAll.
//
// A value that no key can decrypt yields an error matching
// encryptor.ErrDecryptionFailed; the *encryptor.DecryptionError carries one
// cause per key. GetAll fails on the first such cookie unless the store was
// built WithSkipUndecryptable.
package cookiestore
