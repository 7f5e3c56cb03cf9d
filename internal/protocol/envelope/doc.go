// Package envelope builds outgoing requests and decodes incoming replies.
//
// Outgoing, a Builder stamps the operation parameters with version,
// version key, session and timestamp, stores an MD5 fingerprint of their
// canonical JSON under cacheKey, encrypts the JSON under the request nonce
// and signs nonce||MD5(ciphertext):
//
//	body:  {"payloadBase64": ..., "nonce": n, "requestData": {...}}
//	query: signedBase64, token, remoteTimeout, remoteSendInvalidPayload
//
// Incoming, Process tries the two shapes a reply can take:
//
//	encrypted: ChaCha20(gzip(JSON reply)) under the request nonce
//	plaintext: {"errorCode": n}, used for rejections of the request itself
//
// and reports how far it got as an Outcome, which the client uses to decide
// whether the request was acknowledged.
package envelope
