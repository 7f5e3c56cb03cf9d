package types

// User is the account record returned by login and echoed by later replies.
type User struct {
	DeviceID string `json:"deviceId"`
	UserID   int64  `json:"userId"`
	Nonce    uint32 `json:"nonce"`
	Session  string `json:"session"`

	// Lock marker, set while the service believes a request of this
	// session is still executing.
	LockTimestamp int64  `json:"lockTimestamp,omitempty"`
	LockSignature string `json:"lockSignature,omitempty"`
}

// Locked reports whether the lock marker is set.
func (u User) Locked() bool { return u.LockTimestamp != 0 }

// Session is the authenticated state of a client.
type Session struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// SessionValue returns the session string stamped into requests, or nil
// before login.
func (s Session) SessionValue() *string {
	if s.User == nil {
		return nil
	}
	v := s.User.Session
	return &v
}

// LoggedIn reports whether a login reply has been applied.
func (s Session) LoggedIn() bool { return s.User != nil }
