package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Code is a protocol failure code. The numeric values are the ones carried
// on the wire in the errorCode field.
type Code int

const (
	UnknownError                 Code = 1
	Timeout                      Code = 2
	FailedToDecryptServerPayload Code = 3
	InvalidRequest               Code = 4
	FailedToDecryptClientPayload Code = 5
	InvalidSign                  Code = 6
	InvalidToken                 Code = 7
	InvalidNonce                 Code = 8
	InvalidSession               Code = 9
	InvalidTimestamp             Code = 10
	InvalidVersion               Code = 11
	HasCache                     Code = 12
	Locked                       Code = 13
	InvalidDeviceID              Code = 21
	InvalidMonsterID             Code = 31
	InvalidCardID                Code = 32
)

var codeNames = map[Code]string{
	UnknownError:                 "UnknownError",
	Timeout:                      "Timeout",
	FailedToDecryptServerPayload: "FailedToDecryptServerPayload",
	InvalidRequest:               "InvalidRequest",
	FailedToDecryptClientPayload: "FailedToDecryptClientPayload",
	InvalidSign:                  "InvalidSign",
	InvalidToken:                 "InvalidToken",
	InvalidNonce:                 "InvalidNonce",
	InvalidSession:               "InvalidSession",
	InvalidTimestamp:             "InvalidTimestamp",
	InvalidVersion:               "InvalidVersion",
	HasCache:                     "HasCache",
	Locked:                       "Locked",
	InvalidDeviceID:              "InvalidDeviceId",
	InvalidMonsterID:             "InvalidMonsterId",
	InvalidCardID:                "InvalidCardId",
}

// String returns the taxonomy name, or "Code(n)" for values the client does
// not know about.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Known reports whether c belongs to the closed taxonomy.
func (c Code) Known() bool {
	_, ok := codeNames[c]
	return ok
}

// Error lets a bare Code be used as an errors.Is target.
func (c Code) Error() string { return "apierr: " + c.String() }

// Local reports whether the code is produced by the client itself rather
// than reported by the remote service.
func (c Code) Local() bool {
	return c == Timeout || c == FailedToDecryptServerPayload || c == InvalidTimestamp
}

// Error is a protocol failure surfaced to the caller.
type Error struct {
	Code    Code
	Message string

	// Body is the raw response body when the failure came from one.
	Body []byte
	// Reply is the decoded payload when the failure was detected after
	// a successful decrypt (application error or freshness check).
	Reply any

	Err error
}

// New returns an Error for code.
func New(code Code) *Error { return &Error{Code: code} }

// Wrap returns an Error for code caused by err.
func Wrap(code Code, err error) *Error { return &Error{Code: code, Err: err} }

// WithBody attaches the raw response body.
func (e *Error) WithBody(b []byte) *Error {
	e.Body = append([]byte(nil), b...)
	return e
}

// WithReply attaches the decoded reply.
func (e *Error) WithReply(r any) *Error {
	e.Reply = r
	return e
}

func (e *Error) Error() string {
	msg := e.Code.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error or a bare Code with the same code.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Code:
		return e.Code == t
	case *Error:
		return e.Code == t.Code
	}
	return false
}

// MarshalJSON renders the plaintext error envelope {"errorCode": n}.
func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ErrorCode Code `json:"errorCode"`
	}{e.Code})
}

// CodeOf extracts the protocol code from err. Errors that carry no code map
// to UnknownError; nil maps to 0.
func CodeOf(err error) Code {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return UnknownError
}
