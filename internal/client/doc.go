// Package client implements the request/response engine of the card
// service protocol.
//
// A Client owns the session (token and user), the nonce sequencer and the
// resend controller. Each call stamps and fingerprints its parameters,
// encrypts and signs them under a new nonce, and races the transport
// against a local timeout. Replies are decrypted with the same nonce,
// gunzipped and checked for freshness before the session is updated.
//
// Requests that were not acknowledged (timeout, transport failure, a
// plaintext rejection such as Locked, or a stale reply) stay pending and
// can be sent again unchanged with Resend; the service recognises them by
// their cacheKey and answers from its cache.
package client
