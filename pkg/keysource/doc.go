// Package keysource builds encryptor key rings from wherever the secrets live.
//
// Three sources are supported, all producing a ring whose first key is the
// active one and whose remaining keys are kept for decrypting older cookies:
//
//   - environment variables (COOKIE_SECRETS and friends) through FromConfig or Load
//   - the operating system keyring through FromKeyring
//   - a YAML file through FromFile
//
// Every secret is stretched with PBKDF2 using the shared Params. Rotating a
// key means prepending a new secret and keeping the old ones until the
// cookies they protected have expired.
package keysource
