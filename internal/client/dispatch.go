package client

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/samchan0221/mh-coding-task-2/internal/domain"
	"github.com/samchan0221/mh-coding-task-2/internal/protocol/apierr"
	"github.com/samchan0221/mh-coding-task-2/internal/protocol/envelope"
)

// Login authenticates the device and stores the returned token and user.
func (c *Client) Login(ctx context.Context) (*domain.Reply, error) {
	return c.Do(ctx, domain.RouteLogin, domain.Params{"deviceId": c.DeviceID()})
}

// Do sends a fresh request on route. It takes a new nonce, records the
// request as pending and waits for the reply, the local timeout or ctx.
//
// A reply that decodes releases the pending request even when it carries
// an application error. Timeouts, transport failures, plaintext rejections
// and stale replies leave it in place for Resend.
func (c *Client) Do(ctx context.Context, route domain.Route, params domain.Params) (*domain.Reply, error) {
	c.inflight.Lock()
	defer c.inflight.Unlock()

	p, env, timeout, err := c.prepare(route, params)
	if err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, p, env, timeout)
}

// Resend sends the pending request again with the nonce and parameters
// it was first sent with.
func (c *Client) Resend(ctx context.Context) (*domain.Reply, error) {
	c.inflight.Lock()
	defer c.inflight.Unlock()

	p, ok := c.resend.Pending()
	if !ok {
		return nil, ErrNothingToResend
	}
	c.log.WithFields(logrus.Fields{"route": p.Route, "nonce": p.Nonce}).Info("resending pending request")

	c.mu.Lock()
	env, err := c.seal(p)
	timeout := c.timeout
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return c.roundTrip(ctx, p, env, timeout)
}

// prepare stamps params, takes a fresh nonce and records the request as
// pending.
func (c *Client) prepare(route domain.Route, params domain.Params) (domain.Pending, *domain.Envelope, time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stamped, fp, err := c.builder.Stamp(params, c.session.SessionValue())
	if err != nil {
		return domain.Pending{}, nil, 0, err
	}
	n, err := c.seq.Next()
	if err != nil {
		return domain.Pending{}, nil, 0, err
	}
	p := domain.Pending{
		Route:        route,
		Params:       stamped,
		Nonce:        n,
		Fingerprint:  fp,
		DispatchedAt: c.now(),
	}
	c.resend.Track(p)
	env, err := c.seal(p)
	return p, env, c.timeout, err
}

// seal must be called with c.mu held.
func (c *Client) seal(p domain.Pending) (*domain.Envelope, error) {
	env, err := c.builder.Seal(p.Route, p.Params, p.Nonce, c.sim.Faults)
	if err != nil {
		return nil, err
	}
	env.Query.Token = c.session.Token
	env.Query.RemoteTimeout = c.sim.RemoteTimeout
	env.Query.RemoteSendInvalidPayload = c.sim.RemoteSendInvalidPayload
	return env, nil
}

// roundTrip sends env without holding c.mu and applies the outcome. The
// caller holds c.inflight.
func (c *Client) roundTrip(ctx context.Context, p domain.Pending, env *domain.Envelope, timeout time.Duration) (*domain.Reply, error) {
	log := c.log.WithFields(logrus.Fields{
		"route":       p.Route,
		"nonce":       p.Nonce,
		"fingerprint": p.Fingerprint,
	})
	log.Debug("dispatch")

	raw, err := c.send(ctx, env, timeout)
	if err != nil {
		log.WithError(err).Warn("request not acknowledged")
		return nil, err
	}

	reply, outcome, err := envelope.Process(c.engine, raw, p.Nonce, c.now())
	switch outcome {
	case envelope.Resolved:
		c.resend.Resolve()
		c.mu.Lock()
		c.serverTS = reply.Timestamp
		c.receivedTS = c.now().Unix()
		if err == nil {
			c.applySession(reply)
		}
		c.mu.Unlock()
	default:
		log.WithField("outcome", outcome).WithError(err).Warn("reply rejected")
	}
	if err != nil {
		return reply, err
	}
	log.WithField("cache", reply.IsCache).Debug("reply")
	return reply, nil
}

type result struct {
	raw []byte
	err error
}

// send races the transport against the local timeout and ctx. The
// transport runs detached from ctx so the remote side is never cut off
// mid-request; a result arriving after the deadline is discarded.
func (c *Client) send(ctx context.Context, env *domain.Envelope, timeout time.Duration) ([]byte, error) {
	done := make(chan result, 1)
	go func() {
		raw, err := c.transport.Send(context.WithoutCancel(ctx), env)
		done <- result{raw, err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.raw, r.err
	case <-timer.C:
		e := apierr.New(apierr.Timeout)
		e.Message = fmt.Sprintf("no reply within %s", timeout)
		return nil, e
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// applySession must be called with c.mu held.
func (c *Client) applySession(r *domain.Reply) {
	if r.Token != "" {
		c.session.Token = r.Token
	}
	if r.User != nil {
		u := *r.User
		c.session.User = &u
	}
}
