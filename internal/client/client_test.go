package client_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samchan0221/mh-coding-task-2/internal/client"
	"github.com/samchan0221/mh-coding-task-2/internal/crypto"
	"github.com/samchan0221/mh-coding-task-2/internal/domain"
	"github.com/samchan0221/mh-coding-task-2/internal/protocol/apierr"
	"github.com/samchan0221/mh-coding-task-2/internal/protocol/envelope"
)

var errLinkDown = errors.New("link down")

// fakeTransport records envelopes and answers through respond.
type fakeTransport struct {
	mu      sync.Mutex
	sent    []domain.Envelope
	respond func(env *domain.Envelope) ([]byte, error)
}

func (f *fakeTransport) Send(_ context.Context, env *domain.Envelope) ([]byte, error) {
	f.mu.Lock()
	f.sent = append(f.sent, *env)
	respond := f.respond
	f.mu.Unlock()
	return respond(env)
}

func (f *fakeTransport) last() domain.Envelope {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

func (f *fakeTransport) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeTransport) set(respond func(env *domain.Envelope) ([]byte, error)) {
	f.mu.Lock()
	f.respond = respond
	f.mu.Unlock()
}

type fixture struct {
	client *client.Client
	fake   *fakeTransport
	engine *crypto.Engine
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	keys, err := crypto.GenerateKeys()
	require.NoError(t, err)
	e, err := crypto.NewEngine(keys)
	require.NoError(t, err)

	f := &fixture{fake: &fakeTransport{}, engine: e, now: time.Unix(1_700_000_000, 0)}
	f.client = client.New(e, f.fake, client.Options{
		DeviceID: "device",
		Timeout:  time.Second,
		Now:      func() time.Time { return f.now },
	})
	return f
}

// reply makes the fake answer with an encrypted payload.
func (f *fixture) reply(t *testing.T, payload map[string]any) {
	f.fake.set(func(env *domain.Envelope) ([]byte, error) {
		if _, ok := payload["timestamp"]; !ok {
			payload["timestamp"] = f.now.Unix()
		}
		raw, err := envelope.SealReply(f.engine, payload, env.Nonce)
		require.NoError(t, err)
		return raw, nil
	})
}

func (f *fixture) plaintext(body string) {
	f.fake.set(func(*domain.Envelope) ([]byte, error) { return []byte(body), nil })
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	f.reply(t, map[string]any{
		"token": "tok",
		"user":  map[string]any{"deviceId": "device", "userId": 1, "session": "sess"},
	})
	_, err := f.client.Login(context.Background())
	require.NoError(t, err)
}

func TestClient_LoginStoresSession(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	assert.Equal(t, "tok", f.client.Token())
	require.NotNil(t, f.client.User())
	assert.Equal(t, "sess", f.client.User().Session)
	assert.False(t, f.client.CanResend())

	env := f.fake.last()
	assert.Equal(t, domain.RouteLogin, env.Route)
	assert.Equal(t, "device", env.Body.RequestData["deviceId"])
	assert.Nil(t, env.Body.RequestData["session"])
	assert.Empty(t, env.Query.Token)
}

func TestClient_RequestsCarrySessionAndToken(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	f.reply(t, map[string]any{"body": map[string]any{"cards": []any{}}})
	_, err := f.client.Do(context.Background(), domain.RouteListCards, domain.Params{})
	require.NoError(t, err)

	env := f.fake.last()
	assert.Equal(t, "sess", env.Body.RequestData["session"])
	assert.Equal(t, "tok", env.Query.Token)
}

func TestClient_NonceAdvancesOncePerFreshRequest(t *testing.T) {
	f := newFixture(t)
	start := f.client.Nonce()
	f.login(t)
	assert.Equal(t, start+1, f.fake.last().Nonce)

	f.reply(t, map[string]any{})
	for i := uint32(2); i <= 4; i++ {
		_, err := f.client.Do(context.Background(), domain.RouteListCards, nil)
		require.NoError(t, err)
		assert.Equal(t, start+i, f.fake.last().Nonce)
	}
	assert.Equal(t, start+4, f.client.Nonce())
}

func TestClient_TimeoutKeepsPendingAndResendIsIdentical(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.client.SetTimeout(50 * time.Millisecond)

	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	f.fake.set(func(*domain.Envelope) ([]byte, error) {
		<-release
		return nil, errLinkDown
	})

	_, err := f.client.Do(context.Background(), domain.RouteCreateCard, domain.Params{"monsterId": 100})
	require.ErrorIs(t, err, apierr.Timeout)
	require.True(t, f.client.CanResend())
	first := f.fake.last()
	nonceAfterTimeout := f.client.Nonce()

	pending, ok := f.client.PendingRequest()
	require.True(t, ok)
	assert.Equal(t, first.Nonce, pending.Nonce)
	assert.Equal(t, first.Fingerprint, pending.Fingerprint)

	f.now = f.now.Add(10 * time.Second)
	f.reply(t, map[string]any{"isCache": true, "body": map[string]any{"card": map[string]any{"id": 1, "monsterId": 100}}})
	reply, err := f.client.Resend(context.Background())
	require.NoError(t, err)
	assert.True(t, reply.IsCache)
	assert.False(t, f.client.CanResend())
	assert.Equal(t, nonceAfterTimeout, f.client.Nonce(), "resend does not take a new nonce")

	second := f.fake.last()
	assert.Equal(t, first.Nonce, second.Nonce)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Equal(t, first.Body.PayloadBase64, second.Body.PayloadBase64)
	assert.Equal(t, first.Query.SignedBase64, second.Query.SignedBase64)
}

func TestClient_ResendWhenIdle(t *testing.T) {
	f := newFixture(t)
	_, err := f.client.Resend(context.Background())
	assert.ErrorIs(t, err, client.ErrNothingToResend)
	assert.Zero(t, f.fake.count())
}

func TestClient_TransportErrorKeepsPending(t *testing.T) {
	f := newFixture(t)
	f.fake.set(func(*domain.Envelope) ([]byte, error) { return nil, errLinkDown })

	_, err := f.client.Login(context.Background())
	assert.ErrorIs(t, err, errLinkDown)
	assert.True(t, f.client.CanResend())
	assert.Nil(t, f.client.User())
}

func TestClient_PlaintextRejectionKeepsPending(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.plaintext(`{"errorCode":13}`)

	_, err := f.client.Do(context.Background(), domain.RouteListCards, nil)
	assert.ErrorIs(t, err, apierr.Locked)
	assert.True(t, f.client.CanResend())
}

func TestClient_UndecodableReply(t *testing.T) {
	f := newFixture(t)
	f.plaintext("not json")

	_, err := f.client.Login(context.Background())
	assert.ErrorIs(t, err, apierr.FailedToDecryptServerPayload)
	assert.True(t, f.client.CanResend())
}

func TestClient_StaleReplyIsRejected(t *testing.T) {
	f := newFixture(t)
	f.reply(t, map[string]any{
		"timestamp": f.now.Unix() + 4000,
		"token":     "tok",
		"user":      map[string]any{"deviceId": "device", "userId": 1, "session": "sess"},
	})

	_, err := f.client.Login(context.Background())
	assert.ErrorIs(t, err, apierr.InvalidTimestamp)
	assert.True(t, f.client.CanResend())
	assert.Nil(t, f.client.User(), "session is not updated from a stale reply")
	assert.True(t, f.client.PredictedServerTime().IsZero())
}

func TestClient_ApplicationErrorResolvesPending(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.reply(t, map[string]any{"errorCode": int(apierr.InvalidMonsterID)})

	reply, err := f.client.Do(context.Background(), domain.RouteCreateCard, domain.Params{"monsterId": -1})
	assert.ErrorIs(t, err, apierr.InvalidMonsterID)
	require.NotNil(t, reply)
	assert.False(t, f.client.CanResend())
	assert.Equal(t, "tok", f.client.Token())
}

func TestClient_ContextCancel(t *testing.T) {
	f := newFixture(t)
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	f.fake.set(func(*domain.Envelope) ([]byte, error) {
		<-release
		return nil, errLinkDown
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.client.Login(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, f.client.CanResend())
}

func TestClient_PredictedServerTime(t *testing.T) {
	f := newFixture(t)
	f.reply(t, map[string]any{"timestamp": f.now.Unix() + 120})
	_, err := f.client.Login(context.Background())
	require.NoError(t, err)

	f.now = f.now.Add(30 * time.Second)
	assert.Equal(t, f.now.Unix()+120, f.client.PredictedServerTime().Unix())
}

func TestClient_SimulationSwitches(t *testing.T) {
	f := newFixture(t)
	f.reply(t, map[string]any{})
	f.client.Simulate(client.Simulation{
		Faults:                   envelope.Faults{CorruptPayload: true},
		RemoteTimeout:            true,
		RemoteSendInvalidPayload: true,
	})
	_, err := f.client.Login(context.Background())
	require.NoError(t, err)

	env := f.fake.last()
	assert.Equal(t, crypto.B64([]byte("123")), env.Body.PayloadBase64)
	assert.True(t, env.Query.RemoteTimeout)
	assert.True(t, env.Query.RemoteSendInvalidPayload)

	f.client.Simulate(client.Simulation{})
	_, err = f.client.Login(context.Background())
	require.NoError(t, err)
	assert.False(t, f.fake.last().Query.RemoteTimeout)
}

func TestClient_SnapshotRestore(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.plaintext(`{"errorCode":13}`)
	_, err := f.client.Do(context.Background(), domain.RouteDeleteCard, domain.Params{"cardId": 4})
	require.ErrorIs(t, err, apierr.Locked)

	st := f.client.Snapshot()
	assert.Equal(t, "device", st.DeviceID)
	assert.Equal(t, "tok", st.Session.Token)
	assert.Equal(t, f.client.Nonce(), st.Nonce)
	require.NotNil(t, st.Pending)
	assert.Equal(t, domain.RouteDeleteCard, st.Pending.Route)

	other := client.New(f.engine, f.fake, client.Options{Now: func() time.Time { return f.now }})
	other.Restore(st)
	assert.Equal(t, "device", other.DeviceID())
	assert.Equal(t, "tok", other.Token())
	assert.Equal(t, st.Nonce, other.Nonce())
	assert.True(t, other.CanResend())

	f.reply(t, map[string]any{"isCache": true})
	_, err = other.Resend(context.Background())
	require.NoError(t, err)
	assert.Equal(t, st.Pending.Nonce, f.fake.last().Nonce)
	assert.Equal(t, st.Pending.Fingerprint, f.fake.last().Fingerprint)
}

func TestClient_AccessorsDoNotWaitForReply(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	release := make(chan struct{})
	f.fake.set(func(*domain.Envelope) ([]byte, error) {
		<-release
		return nil, errLinkDown
	})
	done := make(chan error, 1)
	go func() {
		_, err := f.client.Do(context.Background(), domain.RouteListCards, domain.Params{})
		done <- err
	}()
	require.Eventually(t, func() bool { return f.fake.count() == 2 }, time.Second, 5*time.Millisecond)

	read := make(chan domain.ClientState, 1)
	go func() {
		_ = f.client.Token()
		_ = f.client.User()
		_ = f.client.PredictedServerTime()
		read <- f.client.Snapshot()
	}()
	select {
	case st := <-read:
		require.NotNil(t, st.Pending, "the request in flight is already pending")
		assert.Equal(t, domain.RouteListCards, st.Pending.Route)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("accessors blocked on the request in flight")
	}

	close(release)
	assert.ErrorIs(t, <-done, errLinkDown)
}
