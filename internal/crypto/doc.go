// Package crypto exposes the primitives used by the request protocol.
//
// Contents
//
//   - ChaCha20 stream encryption keyed by a pre-shared 32-byte key, with the
//     request nonce as cipher nonce (Engine.Encrypt, Engine.Decrypt)
//   - Ed25519 signing in combined form, signature followed by message
//     (Engine.Sign, Engine.Open)
//   - The MD5 digest used to bind ciphertexts and fingerprint requests
//     (Hash, Fingerprint)
//   - Key generation and base64 (de)serialisation (GenerateKeys, ParseKeys)
//
// # Notes
//
// The stream cipher is unauthenticated. Integrity of an exchange comes from
// the signature over nonce||Hash(ciphertext) on the way out, and from the
// reply failing to decompress or parse on the way back.
//
// In production the client holds the private signing key and the server the
// public key. An Engine built from Keys.VerifyOnly can open but not sign;
// the simulator uses one.
package crypto
