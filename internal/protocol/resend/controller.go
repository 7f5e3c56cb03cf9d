package resend

import (
	"sync"

	"github.com/samchan0221/mh-coding-task-2/internal/domain"
)

// Controller holds at most one pending request.
type Controller struct {
	mu      sync.Mutex
	pending *domain.Pending
}

// New returns an idle Controller.
func New() *Controller { return &Controller{} }

// Track records p as the pending request, replacing any earlier one.
func (c *Controller) Track(p domain.Pending) {
	p.Params = p.Params.Clone()
	c.mu.Lock()
	c.pending = &p
	c.mu.Unlock()
}

// Resolve releases the pending request after an acknowledged reply.
func (c *Controller) Resolve() {
	c.mu.Lock()
	c.pending = nil
	c.mu.Unlock()
}

// Pending returns a copy of the held request.
func (c *Controller) Pending() (domain.Pending, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return domain.Pending{}, false
	}
	p := *c.pending
	p.Params = p.Params.Clone()
	return p, true
}

// CanResend reports whether a request is held.
func (c *Controller) CanResend() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// Restore replaces the controller state with p; nil makes it idle.
func (c *Controller) Restore(p *domain.Pending) {
	if p == nil {
		c.Resolve()
		return
	}
	c.Track(*p)
}
