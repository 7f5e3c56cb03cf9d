// Package resend tracks the single unacknowledged request of a client.
//
// A Controller is either idle or holds one Pending request. Every dispatch
// replaces the held request; only a reply the client could decrypt and
// parse releases it. While a request is held the caller may send it again
// unchanged, under the same nonce and fingerprint, and the service answers
// a completed request from its cache or reports Locked while the first
// attempt is still executing.
package resend
