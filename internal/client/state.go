package client

import "github.com/samchan0221/mh-coding-task-2/internal/domain"

// Snapshot captures everything needed to resume this client later.
// Cards are left empty; they belong to the card service.
func (c *Client) Snapshot() domain.ClientState {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := domain.ClientState{
		DeviceID:          c.deviceID,
		Session:           c.session,
		Nonce:             c.seq.Current(),
		ServerTimestamp:   c.serverTS,
		ReceivedTimestamp: c.receivedTS,
	}
	if st.Session.User != nil {
		u := *st.Session.User
		st.Session.User = &u
	}
	if p, ok := c.resend.Pending(); ok {
		st.Pending = &p
	}
	return st
}

// Restore loads st into the client, replacing its session, nonce position
// and pending request. The device id is only taken from st when the client
// was built without one. Restore waits for a request in flight to finish.
func (c *Client) Restore(st domain.ClientState) {
	c.inflight.Lock()
	defer c.inflight.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deviceID == "" {
		c.deviceID = st.DeviceID
	}
	c.session = st.Session
	if st.Session.User != nil {
		u := *st.Session.User
		c.session.User = &u
	}
	c.seq.Restore(st.Nonce)
	c.resend.Restore(st.Pending)
	c.serverTS = st.ServerTimestamp
	c.receivedTS = st.ReceivedTimestamp
}

var _ domain.Caller = (*Client)(nil)
