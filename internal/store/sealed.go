package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/samchan0221/mh-coding-task-2/internal/util/memzero"
)

// sealedFormatVersion is the newest sealed-file layout this package reads.
const sealedFormatVersion = 1

var (
	// ErrWrongPassphrase is returned when a sealed file cannot be opened,
	// either because the passphrase differs or the file was modified.
	ErrWrongPassphrase = errors.New("store: wrong passphrase or corrupted state")
	// ErrPassphraseRequired is returned when loading sealed state without
	// a passphrase.
	ErrPassphraseRequired = errors.New("store: state is sealed, passphrase required")
)

// KDF holds the scrypt cost parameters.
type KDF struct {
	N, R, P int
}

// DefaultKDF is the cost used for newly sealed files.
var DefaultKDF = KDF{N: 1 << 15, R: 8, P: 1}

// sealedFile is the JSON layout of a passphrase-protected file.
type sealedFile struct {
	V      int    `json:"v"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

// seal derives a key from passphrase and encrypts raw. The salt is the
// associated data, and a fresh salt per file makes the zero nonce safe.
func seal(passphrase string, raw []byte, kdf KDF) ([]byte, error) {
	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, err
	}
	key, err := scrypt.Key([]byte(passphrase), salt[:], kdf.N, kdf.R, kdf.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	return json.Marshal(sealedFile{
		V:      sealedFormatVersion,
		Salt:   salt[:],
		N:      kdf.N,
		R:      kdf.R,
		P:      kdf.P,
		Cipher: aead.Seal(nil, nonce[:], raw, salt[:]),
	})
}

// open reverses seal.
func open(passphrase string, b []byte) ([]byte, error) {
	var sf sealedFile
	if err := json.Unmarshal(b, &sf); err != nil {
		return nil, fmt.Errorf("decode sealed state: %w", err)
	}
	if sf.V > sealedFormatVersion {
		return nil, fmt.Errorf("unsupported sealed state version %d", sf.V)
	}

	key, err := scrypt.Key([]byte(passphrase), sf.Salt, sf.N, sf.R, sf.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	defer memzero.Zero(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	pt, err := aead.Open(nil, nonce[:], sf.Cipher, sf.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return pt, nil
}
