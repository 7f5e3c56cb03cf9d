package crypto

import (
	"crypto/ed25519"
	"crypto/md5"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20"

	"github.com/samchan0221/mh-coding-task-2/internal/protocol/nonce"
)

var (
	// ErrInvalidSignature is returned by Open when the embedded signature
	// does not verify under the engine's public key.
	ErrInvalidSignature = errors.New("crypto: invalid signature")
	// ErrNoSigningKey is returned by Sign when the engine was built without
	// a private key.
	ErrNoSigningKey = errors.New("crypto: no signing key configured")
)

// Engine performs the stream-cipher and signing primitives of the protocol.
// It holds only static key material and is safe for concurrent use.
type Engine struct {
	key  [chacha20.KeySize]byte
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewEngine builds an Engine from k. The encryption key is required; a
// missing public key is derived from the private key.
func NewEngine(k Keys) (*Engine, error) {
	if len(k.Encryption) != chacha20.KeySize {
		return nil, fmt.Errorf("crypto: encryption key: want %d bytes, got %d", chacha20.KeySize, len(k.Encryption))
	}
	e := &Engine{}
	copy(e.key[:], k.Encryption)

	if len(k.SignPrivate) > 0 {
		if len(k.SignPrivate) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("crypto: signing key: want %d bytes, got %d", ed25519.PrivateKeySize, len(k.SignPrivate))
		}
		e.priv = append(ed25519.PrivateKey(nil), k.SignPrivate...)
	}
	switch {
	case len(k.SignPublic) > 0:
		if len(k.SignPublic) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("crypto: verify key: want %d bytes, got %d", ed25519.PublicKeySize, len(k.SignPublic))
		}
		e.pub = append(ed25519.PublicKey(nil), k.SignPublic...)
	case e.priv != nil:
		e.pub = e.priv.Public().(ed25519.PublicKey)
	default:
		return nil, errors.New("crypto: no signing or verify key")
	}
	return e, nil
}

// Encrypt XORs plaintext with the ChaCha20 keystream for n. The output has
// the same length as the input.
func (e *Engine) Encrypt(plaintext []byte, n uint32) ([]byte, error) {
	return e.xor(plaintext, n)
}

// Decrypt is the inverse of Encrypt. It provides no integrity on its own.
func (e *Engine) Decrypt(ciphertext []byte, n uint32) ([]byte, error) {
	return e.xor(ciphertext, n)
}

// xor runs DJB's 64-bit-nonce ChaCha20 through the IETF cipher: with
// the first four nonce bytes zero, block counter and nonce land in the same
// state words, so the keystreams match for payloads under 256 GiB.
func (e *Engine) xor(src []byte, n uint32) ([]byte, error) {
	iv := make([]byte, chacha20.NonceSize)
	copy(iv[4:], nonce.Encode(n))
	c, err := chacha20.NewUnauthenticatedCipher(e.key[:], iv)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, len(src))
	c.XORKeyStream(dst, src)
	return dst, nil
}

// Sign returns signature || msg.
func (e *Engine) Sign(msg []byte) ([]byte, error) {
	if e.priv == nil {
		return nil, ErrNoSigningKey
	}
	sig := ed25519.Sign(e.priv, msg)
	out := make([]byte, 0, len(sig)+len(msg))
	out = append(out, sig...)
	return append(out, msg...), nil
}

// Open verifies a buffer produced by Sign and returns the embedded message.
func (e *Engine) Open(signed []byte) ([]byte, error) {
	if len(signed) < ed25519.SignatureSize {
		return nil, ErrInvalidSignature
	}
	sig, msg := signed[:ed25519.SignatureSize], signed[ed25519.SignatureSize:]
	if !ed25519.Verify(e.pub, msg, sig) {
		return nil, ErrInvalidSignature
	}
	return append([]byte(nil), msg...), nil
}

// CanSign reports whether the engine holds a private key.
func (e *Engine) CanSign() bool { return e.priv != nil }

// Hash is the digest used for ciphertext binding and request fingerprints.
func Hash(b []byte) [md5.Size]byte { return md5.Sum(b) }
