package client

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/samchan0221/mh-coding-task-2/internal/crypto"
	"github.com/samchan0221/mh-coding-task-2/internal/domain"
	"github.com/samchan0221/mh-coding-task-2/internal/logging"
	"github.com/samchan0221/mh-coding-task-2/internal/protocol/envelope"
	"github.com/samchan0221/mh-coding-task-2/internal/protocol/nonce"
	"github.com/samchan0221/mh-coding-task-2/internal/protocol/resend"
)

const (
	DefaultTimeout    = 20 * time.Second
	DefaultVersion    = "1.0"
	DefaultVersionKey = "version-key"
)

// ErrNothingToResend is returned by Resend when no request is pending.
var ErrNothingToResend = errors.New("client: nothing to resend")

// Options configure a Client. Zero values fall back to the defaults above,
// the wall clock and the "client" logger.
type Options struct {
	DeviceID   string
	Version    string
	VersionKey string
	Timeout    time.Duration
	Now        func() time.Time
	Log        *logrus.Entry
}

// Simulation holds switches that make the next requests misbehave on
// purpose. Faults are applied locally; the Remote* flags ask the service to
// stall or to answer with an undecryptable payload.
type Simulation struct {
	Faults                   envelope.Faults
	RemoteTimeout            bool
	RemoteSendInvalidPayload bool
}

// Client is the protocol engine for one session. Requests are serialised:
// at most one is in flight.
type Client struct {
	// inflight is held for a whole request; mu only while state is read or
	// updated, so accessors never wait on the network.
	inflight sync.Mutex
	mu       sync.Mutex

	engine    *crypto.Engine
	builder   *envelope.Builder
	seq       *nonce.Sequencer
	resend    *resend.Controller
	transport domain.Transport
	log       *logrus.Entry

	deviceID string
	timeout  time.Duration
	now      func() time.Time
	sim      Simulation

	session    domain.Session
	serverTS   int64
	receivedTS int64
}

// New returns a Client with a freshly seeded nonce sequencer and no session.
func New(e *crypto.Engine, t domain.Transport, opts Options) *Client {
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	if opts.VersionKey == "" {
		opts.VersionKey = DefaultVersionKey
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = logging.For("client")
	}
	return &Client{
		engine: e,
		builder: &envelope.Builder{
			Engine:     e,
			Version:    opts.Version,
			VersionKey: opts.VersionKey,
			Now:        opts.Now,
		},
		seq:       nonce.New(),
		resend:    resend.New(),
		transport: t,
		log:       opts.Log,
		deviceID:  opts.DeviceID,
		timeout:   opts.Timeout,
		now:       opts.Now,
	}
}

// DeviceID returns the device identifier sent at login.
func (c *Client) DeviceID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deviceID
}

// User returns the logged-in user, or nil before login.
func (c *Client) User() *domain.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.User == nil {
		return nil
	}
	u := *c.session.User
	return &u
}

// Token returns the query token issued at login.
func (c *Client) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Token
}

// Nonce returns the last nonce issued.
func (c *Client) Nonce() uint32 { return c.seq.Current() }

// CanResend reports whether an unacknowledged request is held.
func (c *Client) CanResend() bool { return c.resend.CanResend() }

// PendingRequest returns the held request, if any.
func (c *Client) PendingRequest() (domain.Pending, bool) { return c.resend.Pending() }

// PredictedServerTime extrapolates the server clock from the last fresh
// reply. It returns the zero time before any reply was received.
func (c *Client) PredictedServerTime() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.serverTS == 0 {
		return time.Time{}
	}
	elapsed := c.now().Unix() - c.receivedTS
	return time.Unix(c.serverTS+elapsed, 0)
}

// SetTimeout changes the local deadline for subsequent requests.
func (c *Client) SetTimeout(d time.Duration) {
	c.mu.Lock()
	if d > 0 {
		c.timeout = d
	}
	c.mu.Unlock()
}

// Simulate sets the misbehaviour switches for subsequent requests. Pass the
// zero value to switch everything off.
func (c *Client) Simulate(s Simulation) {
	c.mu.Lock()
	c.sim = s
	c.mu.Unlock()
}
