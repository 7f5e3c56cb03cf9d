package envelope

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/samchan0221/mh-coding-task-2/internal/crypto"
	"github.com/samchan0221/mh-coding-task-2/internal/domain"
	"github.com/samchan0221/mh-coding-task-2/internal/domain/types"
	"github.com/samchan0221/mh-coding-task-2/internal/protocol/nonce"
)

// Faults deliberately break an outgoing request so tests can provoke the
// service's FailedToDecryptClientPayload and InvalidSign rejections.
type Faults struct {
	// CorruptPayload replaces the ciphertext with the bytes "123".
	CorruptPayload bool
	// CorruptSignature flips one byte of the signed buffer.
	CorruptSignature bool
}

// Builder stamps, fingerprints, encrypts and signs requests.
type Builder struct {
	Engine     *crypto.Engine
	Version    string
	VersionKey string
	Now        func() time.Time
}

// Stamp returns a copy of params with version, version key, session and
// timestamp set, and its fingerprint stored under cacheKey. A nil session
// is sent as JSON null.
//
// The fingerprint is computed over the canonical JSON of the stamped set
// before cacheKey is added.
func (b *Builder) Stamp(params domain.Params, session *string) (domain.Params, string, error) {
	stamped := params.Clone()
	delete(stamped, types.ParamCacheKey)
	stamped[types.ParamVersion] = b.Version
	stamped[types.ParamVersionKey] = b.VersionKey
	if session != nil {
		stamped[types.ParamSession] = *session
	} else {
		stamped[types.ParamSession] = nil
	}
	stamped[types.ParamTimestamp] = b.now().Unix()

	canonical, err := json.Marshal(stamped)
	if err != nil {
		return nil, "", fmt.Errorf("encode params: %w", err)
	}
	fp := crypto.Fingerprint(canonical)
	stamped[types.ParamCacheKey] = fp
	return stamped, fp, nil
}

// Seal encrypts stamped under nonce n and signs nonce||Hash(ciphertext).
//
// Sealing the same route, parameters and nonce again produces an identical
// envelope; resend depends on that.
func (b *Builder) Seal(route domain.Route, stamped domain.Params, n uint32, faults Faults) (*domain.Envelope, error) {
	plain, err := json.Marshal(stamped)
	if err != nil {
		return nil, fmt.Errorf("encode params: %w", err)
	}
	payload, err := b.Engine.Encrypt(plain, n)
	if err != nil {
		return nil, fmt.Errorf("encrypt payload: %w", err)
	}
	if faults.CorruptPayload {
		payload = []byte("123")
	}

	digest := crypto.Hash(payload)
	signed, err := b.Engine.Sign(append(nonce.Encode(n), digest[:]...))
	if err != nil {
		return nil, fmt.Errorf("sign payload: %w", err)
	}
	if faults.CorruptSignature {
		signed[0] ^= 0xff
	}

	fp, _ := stamped[types.ParamCacheKey].(string)
	return &domain.Envelope{
		Route:       route,
		Nonce:       n,
		Fingerprint: fp,
		Body: domain.RequestBody{
			PayloadBase64: crypto.B64(payload),
			Nonce:         n,
			RequestData:   stamped,
		},
		Query: domain.RequestQuery{
			SignedBase64: crypto.B64(signed),
		},
	}, nil
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}
