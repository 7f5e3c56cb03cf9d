package envelope

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/samchan0221/mh-coding-task-2/internal/crypto"
	"github.com/samchan0221/mh-coding-task-2/internal/domain"
	"github.com/samchan0221/mh-coding-task-2/internal/protocol/apierr"
)

// MaxClockSkew is the largest accepted distance between the reply's server
// timestamp and the local clock.
const MaxClockSkew = time.Hour

// maxSkewSeconds is MaxClockSkew in whole seconds, the unit of protocol
// timestamps.
const maxSkewSeconds = int64(MaxClockSkew / time.Second)

// maxReplySize caps the decompressed size of a reply.
const maxReplySize = 32 << 20

var errReplyTooLarge = errors.New("decompressed reply exceeds limit")

// Fresh reports whether the unix timestamp ts lies within MaxClockSkew of
// now. The bounds are compared directly so that no timestamp can overflow
// into range.
func Fresh(ts int64, now time.Time) bool {
	n := now.Unix()
	return ts >= n-maxSkewSeconds && ts <= n+maxSkewSeconds
}

// Outcome tells the caller how far processing got.
type Outcome int

const (
	// Rejected: the body was a plaintext error envelope or could not be
	// decoded. The service did not acknowledge the request.
	Rejected Outcome = iota
	// Stale: the payload decoded but failed the freshness check.
	Stale
	// Resolved: the payload decoded and passed the freshness check. It may
	// still carry an application error code.
	Resolved
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case Stale:
		return "stale"
	default:
		return "rejected"
	}
}

// errorEnvelope is the plaintext body used for protocol-level rejections.
type errorEnvelope struct {
	ErrorCode *apierr.Code `json:"errorCode"`
}

// Process decodes a raw response for the request sent with nonce n.
//
// A body that decrypts and gunzips is parsed as a Reply. A body that does
// not is read as a plaintext {"errorCode": n} envelope; if that also fails
// the result is FailedToDecryptServerPayload.
func Process(e *crypto.Engine, raw []byte, n uint32, now time.Time) (*domain.Reply, Outcome, error) {
	decrypted, err := e.Decrypt(raw, n)
	if err != nil {
		return nil, Rejected, apierr.Wrap(apierr.FailedToDecryptServerPayload, err).WithBody(raw)
	}

	plain, err := gunzip(decrypted)
	if errors.Is(err, errReplyTooLarge) {
		return nil, Rejected, apierr.Wrap(apierr.FailedToDecryptServerPayload, err)
	}
	if err != nil {
		return nil, Rejected, plaintextError(raw)
	}

	var reply domain.Reply
	if err := json.Unmarshal(plain, &reply); err != nil {
		return nil, Rejected, apierr.Wrap(apierr.FailedToDecryptServerPayload, err).WithBody(raw)
	}

	if !Fresh(reply.Timestamp, now) {
		stale := apierr.New(apierr.InvalidTimestamp).WithReply(&reply)
		stale.Message = fmt.Sprintf("server timestamp %d is more than %s from %d", reply.Timestamp, MaxClockSkew, now.Unix())
		return &reply, Stale, stale
	}

	if reply.ErrorCode != 0 {
		return &reply, Resolved, apierr.New(reply.ErrorCode).WithReply(&reply)
	}
	return &reply, Resolved, nil
}

func plaintextError(raw []byte) error {
	var env errorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return apierr.Wrap(apierr.FailedToDecryptServerPayload, err).WithBody(raw)
	}
	if env.ErrorCode == nil || *env.ErrorCode == 0 {
		return apierr.New(apierr.FailedToDecryptServerPayload).WithBody(raw)
	}
	return apierr.New(*env.ErrorCode).WithBody(raw)
}

func gunzip(b []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	b, err = io.ReadAll(io.LimitReader(zr, maxReplySize+1))
	if err != nil {
		return nil, err
	}
	if len(b) > maxReplySize {
		return nil, errReplyTooLarge
	}
	return b, nil
}

// Compress gzips b. It is the inverse of the decompression step in Process
// and is used by the service side of the protocol.
func Compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SealReply gzips and encrypts a reply payload for nonce n.
func SealReply(e *crypto.Engine, reply any, n uint32) ([]byte, error) {
	plain, err := json.Marshal(reply)
	if err != nil {
		return nil, err
	}
	z, err := Compress(plain)
	if err != nil {
		return nil, err
	}
	return e.Encrypt(z, n)
}
