package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20"
)

// Keys is the static, pre-shared key material of a deployment.
type Keys struct {
	Encryption  []byte
	SignPrivate ed25519.PrivateKey
	SignPublic  ed25519.PublicKey
}

// GenerateKeys returns a fresh encryption key and Ed25519 signing pair.
func GenerateKeys() (Keys, error) {
	enc := make([]byte, chacha20.KeySize)
	if _, err := rand.Read(enc); err != nil {
		return Keys{}, err
	}
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return Keys{}, err
	}
	return Keys{Encryption: enc, SignPrivate: priv, SignPublic: pub}, nil
}

// ParseKeys decodes base64 key strings. signPrivate may be a 64-byte
// private key or a 32-byte seed; either signing string may be empty.
func ParseKeys(encryption, signPrivate, signPublic string) (Keys, error) {
	var k Keys
	var err error
	if k.Encryption, err = Unb64(encryption); err != nil {
		return Keys{}, fmt.Errorf("encryption key: %w", err)
	}
	if signPrivate != "" {
		raw, err := Unb64(signPrivate)
		if err != nil {
			return Keys{}, fmt.Errorf("sign private key: %w", err)
		}
		if len(raw) == ed25519.SeedSize {
			raw = ed25519.NewKeyFromSeed(raw)
		}
		k.SignPrivate = raw
	}
	if signPublic != "" {
		raw, err := Unb64(signPublic)
		if err != nil {
			return Keys{}, fmt.Errorf("sign public key: %w", err)
		}
		k.SignPublic = raw
	}
	return k, nil
}

// Strings returns the base64 form of k, the inverse of ParseKeys.
func (k Keys) Strings() (encryption, signPrivate, signPublic string) {
	return B64(k.Encryption), B64(k.SignPrivate), B64(k.SignPublic)
}

// VerifyOnly returns a copy of k without the private signing key.
func (k Keys) VerifyOnly() Keys {
	pub := k.SignPublic
	if len(pub) == 0 && len(k.SignPrivate) == ed25519.PrivateKeySize {
		pub = k.SignPrivate.Public().(ed25519.PublicKey)
	}
	return Keys{Encryption: k.Encryption, SignPublic: pub}
}
