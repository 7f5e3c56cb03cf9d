package types

// ClientState is everything a client needs to resume where it stopped:
// session, nonce position, the unacknowledged request and clock samples.
type ClientState struct {
	DeviceID          string   `json:"device_id"`
	Session           Session  `json:"session"`
	Nonce             uint32   `json:"nonce"`
	Pending           *Pending `json:"pending,omitempty"`
	ServerTimestamp   int64    `json:"server_timestamp,omitempty"`
	ReceivedTimestamp int64    `json:"received_timestamp,omitempty"`
	Cards             []Card   `json:"cards,omitempty"`
}
