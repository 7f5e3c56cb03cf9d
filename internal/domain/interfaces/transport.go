package interfaces

import (
	"context"

	domaintypes "github.com/samchan0221/mh-coding-task-2/internal/domain/types"
)

// Transport delivers a built request and returns the raw response body.
//
// Implementations must not treat the body's content as an error: plaintext
// error envelopes and encrypted payloads are both returned as bytes.
type Transport interface {
	Send(ctx context.Context, envelope *domaintypes.Envelope) ([]byte, error)
}
