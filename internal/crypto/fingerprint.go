package crypto

import "encoding/hex"

// Fingerprint returns the hex digest used as a request's cacheKey.
//
// It is an idempotency key the server uses to recognise a resent request,
// not a security primitive.
func Fingerprint(canonical []byte) string {
	sum := Hash(canonical)
	return hex.EncodeToString(sum[:])
}
