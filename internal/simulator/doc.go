// Package simulator is an in-memory implementation of the card service,
// used by tests and by cmd/cardsim for local development.
//
// It enforces the service side of the protocol: the Ed25519 signature over
// nonce||md5(payload), payload decryption, protocol version, request
// timestamp, device id length, login token and body session, and strictly
// increasing nonces per user. Each user has a lock that is held while a
// request executes and a one-entry cache of the last completed request,
// keyed by cacheKey and nonce, which is replayed with isCache set.
//
// Requests flagged with remoteTimeout execute for Options.Delay before
// answering; remoteSendInvalidPayload replaces the reply with bytes the
// client cannot decode.
//
// Protocol rejections are answered with the plaintext {"errorCode": n}
// body. Application errors (InvalidMonsterId, InvalidCardId) travel inside
// the encrypted reply.
package simulator
