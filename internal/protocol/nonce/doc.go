// Package nonce provides the per-session request counter.
//
// A Sequencer is advanced exactly once per fresh request. A resend reuses
// the nonce stored with the pending request instead of calling Next again,
// so the server sees the same nonce together with the same fingerprint.
//
// The serialized form (Encode) is the 8-byte little-endian buffer used both
// as the stream-cipher nonce and as the prefix of the signed material.
package nonce
