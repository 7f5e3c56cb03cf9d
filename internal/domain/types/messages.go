package types

import (
	"encoding/json"
	"time"

	"github.com/samchan0221/mh-coding-task-2/internal/protocol/apierr"
)

// RequestBody is the JSON body posted for every request. RequestData is a
// plaintext mirror of the encrypted parameters, used for routing and logs.
type RequestBody struct {
	PayloadBase64 string `json:"payloadBase64"`
	Nonce         uint32 `json:"nonce"`
	RequestData   Params `json:"requestData"`
}

// RequestQuery holds the query-string side of a request. The two Remote*
// flags ask the service to simulate failures and exist for testing.
type RequestQuery struct {
	SignedBase64             string
	Token                    string
	RemoteTimeout            bool
	RemoteSendInvalidPayload bool
}

// Envelope is a fully built request, ready for the transport.
type Envelope struct {
	Route       Route
	Nonce       uint32
	Fingerprint string
	Body        RequestBody
	Query       RequestQuery
}

// Reply is a decrypted and decoded response payload.
type Reply struct {
	ErrorCode apierr.Code     `json:"errorCode,omitempty"`
	Timestamp int64           `json:"timestamp"`
	Token     string          `json:"token,omitempty"`
	User      *User           `json:"user,omitempty"`
	IsCache   bool            `json:"isCache,omitempty"`
	Body      json.RawMessage `json:"body,omitempty"`
}

// Pending is the retained content of the last unacknowledged request.
type Pending struct {
	Route        Route     `json:"route"`
	Params       Params    `json:"params"`
	Nonce        uint32    `json:"nonce"`
	Fingerprint  string    `json:"fingerprint"`
	DispatchedAt time.Time `json:"dispatched_at"`
}
