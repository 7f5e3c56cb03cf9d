package resend_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samchan0221/mh-coding-task-2/internal/domain"
	"github.com/samchan0221/mh-coding-task-2/internal/protocol/resend"
)

func pending(n uint32) domain.Pending {
	return domain.Pending{
		Route:        domain.RouteCreateCard,
		Params:       domain.Params{"monsterId": 1, "cacheKey": "fp"},
		Nonce:        n,
		Fingerprint:  "fp",
		DispatchedAt: time.Unix(1_700_000_000, 0),
	}
}

func TestController_StartsIdle(t *testing.T) {
	c := resend.New()
	assert.False(t, c.CanResend())
	_, ok := c.Pending()
	assert.False(t, ok)
}

func TestController_TrackAndResolve(t *testing.T) {
	c := resend.New()
	c.Track(pending(5))
	require.True(t, c.CanResend())

	got, ok := c.Pending()
	require.True(t, ok)
	assert.Equal(t, uint32(5), got.Nonce)
	assert.Equal(t, "fp", got.Fingerprint)

	c.Resolve()
	assert.False(t, c.CanResend())
}

func TestController_TrackReplaces(t *testing.T) {
	c := resend.New()
	c.Track(pending(5))
	c.Track(pending(6))

	got, ok := c.Pending()
	require.True(t, ok)
	assert.Equal(t, uint32(6), got.Nonce)
}

func TestController_PendingIsACopy(t *testing.T) {
	c := resend.New()
	p := pending(5)
	c.Track(p)
	p.Params["monsterId"] = 99

	got, _ := c.Pending()
	assert.Equal(t, 1, got.Params["monsterId"])

	got.Params["monsterId"] = 42
	again, _ := c.Pending()
	assert.Equal(t, 1, again.Params["monsterId"])
}

func TestController_Restore(t *testing.T) {
	c := resend.New()
	p := pending(9)
	c.Restore(&p)
	assert.True(t, c.CanResend())

	c.Restore(nil)
	assert.False(t, c.CanResend())
}
