// Package store persists the client state between runs of the CLI.
//
// StateFileStore writes a single file under the configured home directory:
// state.json in the clear, or state.enc when a passphrase is supplied. The
// sealed form derives a key with scrypt and encrypts with
// ChaCha20-Poly1305; the derived key is wiped after use. Writes go through
// a temp file and rename so a crash never leaves a torn file behind.
package store
