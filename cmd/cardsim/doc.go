// Package main runs the in-memory card service used by cardctl during
// development and tests. It reads the shared encryption key and the
// signing public key from a cardctl config.toml.
//
// HTTP API
//
//	POST /users/login    { deviceId }
//	    Create the account on first use, start a new session and return
//	    the user together with a login token.
//
//	POST /cards/list
//	    Return { cards } for the token's user.
//
//	POST /cards/create   { monsterId }
//	POST /cards/update   { cardId, exp }
//	POST /cards/delete   { cardId }
//	    Return { cards, card } with the affected card.
//
// Every request body is {payloadBase64, nonce, requestData}; the query
// carries signedBase64, token, remoteTimeout and remoteSendInvalidPayload.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Protocol rejections are answered with {"errorCode": n} in the clear.
//     Successful replies and application errors are gzipped JSON encrypted
//     with the request nonce.
//   - A request flagged remoteTimeout executes for --delay while holding the
//     user's lock; requests arriving meanwhile get Locked. Once done, the
//     same request (same cacheKey and nonce) is answered from cache.
//   - --skew shifts the server clock to exercise timestamp checks.
package main
