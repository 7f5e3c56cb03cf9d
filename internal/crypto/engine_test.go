package crypto_test

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samchan0221/mh-coding-task-2/internal/crypto"
)

func newEngine(t *testing.T) (*crypto.Engine, crypto.Keys) {
	t.Helper()
	keys, err := crypto.GenerateKeys()
	require.NoError(t, err)
	e, err := crypto.NewEngine(keys)
	require.NoError(t, err)
	return e, keys
}

func TestEngine_EncryptDecryptRoundTrip(t *testing.T) {
	e, _ := newEngine(t)

	input := map[string]string{"name": "terence", "company": "madhead", "address": "sciencepark"}
	msg, err := json.Marshal(input)
	require.NoError(t, err)

	for _, n := range []uint32{0, 1, 256*256*256 + 1, 1<<32 - 1} {
		ct, err := e.Encrypt(msg, n)
		require.NoError(t, err)
		assert.Len(t, ct, len(msg))
		assert.NotEqual(t, msg, ct)

		pt, err := e.Decrypt(ct, n)
		require.NoError(t, err)
		assert.Equal(t, msg, pt)
	}
}

func TestEngine_EncryptDeterministicPerNonce(t *testing.T) {
	e, _ := newEngine(t)
	msg := bytes.Repeat([]byte{0xAB}, 1000)

	a, err := e.Encrypt(msg, 7)
	require.NoError(t, err)
	b, err := e.Encrypt(msg, 7)
	require.NoError(t, err)
	c, err := e.Encrypt(msg, 8)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestEngine_DecryptWithWrongNonceGarbles(t *testing.T) {
	e, _ := newEngine(t)
	msg := []byte(`{"deviceId":"x"}`)
	ct, err := e.Encrypt(msg, 10)
	require.NoError(t, err)
	pt, err := e.Decrypt(ct, 11)
	require.NoError(t, err)
	assert.NotEqual(t, msg, pt)
}

func TestEngine_EmptyPlaintext(t *testing.T) {
	e, _ := newEngine(t)
	ct, err := e.Encrypt(nil, 1)
	require.NoError(t, err)
	assert.Empty(t, ct)
}

func TestEngine_SignOpenRoundTrip(t *testing.T) {
	e, _ := newEngine(t)
	msg := []byte("nonce-and-digest")

	signed, err := e.Sign(msg)
	require.NoError(t, err)
	assert.Len(t, signed, ed25519.SignatureSize+len(msg))
	assert.Equal(t, msg, signed[ed25519.SignatureSize:])

	got, err := e.Open(signed)
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestEngine_OpenRejectsEverySingleBitFlip(t *testing.T) {
	e, _ := newEngine(t)
	signed, err := e.Sign([]byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)

	for i := range signed {
		for bit := 0; bit < 8; bit++ {
			mutated := append([]byte(nil), signed...)
			mutated[i] ^= 1 << bit
			_, err := e.Open(mutated)
			require.ErrorIs(t, err, crypto.ErrInvalidSignature, "byte %d bit %d", i, bit)
		}
	}
}

func TestEngine_OpenRejectsShortBuffer(t *testing.T) {
	e, _ := newEngine(t)
	_, err := e.Open([]byte("123"))
	assert.ErrorIs(t, err, crypto.ErrInvalidSignature)
}

func TestEngine_VerifyOnlyCannotSign(t *testing.T) {
	signer, keys := newEngine(t)
	verifier, err := crypto.NewEngine(keys.VerifyOnly())
	require.NoError(t, err)
	assert.False(t, verifier.CanSign())

	_, err = verifier.Sign([]byte("x"))
	assert.ErrorIs(t, err, crypto.ErrNoSigningKey)

	signed, err := signer.Sign([]byte("x"))
	require.NoError(t, err)
	got, err := verifier.Open(signed)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)
}

func TestEngine_OtherKeyRejected(t *testing.T) {
	a, _ := newEngine(t)
	b, _ := newEngine(t)
	signed, err := a.Sign([]byte("hello"))
	require.NoError(t, err)
	_, err = b.Open(signed)
	assert.ErrorIs(t, err, crypto.ErrInvalidSignature)
}

func TestNewEngine_ValidatesKeys(t *testing.T) {
	_, err := crypto.NewEngine(crypto.Keys{Encryption: make([]byte, 16)})
	assert.Error(t, err)

	_, err = crypto.NewEngine(crypto.Keys{Encryption: make([]byte, 32)})
	assert.Error(t, err, "engine needs at least a verify key")

	_, err = crypto.NewEngine(crypto.Keys{Encryption: make([]byte, 32), SignPublic: make([]byte, 5)})
	assert.Error(t, err)
}

func TestParseKeys_RoundTrip(t *testing.T) {
	keys, err := crypto.GenerateKeys()
	require.NoError(t, err)

	enc, priv, pub := keys.Strings()
	got, err := crypto.ParseKeys(enc, priv, pub)
	require.NoError(t, err)
	assert.Equal(t, keys.Encryption, got.Encryption)
	assert.Equal(t, keys.SignPrivate, got.SignPrivate)
	assert.Equal(t, keys.SignPublic, got.SignPublic)
}

func TestParseKeys_AcceptsSeed(t *testing.T) {
	keys, err := crypto.GenerateKeys()
	require.NoError(t, err)
	enc, _, _ := keys.Strings()

	got, err := crypto.ParseKeys(enc, crypto.B64(keys.SignPrivate.Seed()), "")
	require.NoError(t, err)
	assert.Equal(t, keys.SignPrivate, got.SignPrivate)

	_, err = crypto.ParseKeys("not base64!", "", "")
	assert.Error(t, err)
}

func TestFingerprint_StableHex(t *testing.T) {
	a := crypto.Fingerprint([]byte(`{"a":1}`))
	b := crypto.Fingerprint([]byte(`{"a":1}`))
	c := crypto.Fingerprint([]byte(`{"a":2}`))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}
