package app

import (
	"fmt"
	"net/http"

	"github.com/samchan0221/mh-coding-task-2/internal/client"
	"github.com/samchan0221/mh-coding-task-2/internal/crypto"
	"github.com/samchan0221/mh-coding-task-2/internal/domain"
	"github.com/samchan0221/mh-coding-task-2/internal/logging"
	"github.com/samchan0221/mh-coding-task-2/internal/services/cards"
	"github.com/samchan0221/mh-coding-task-2/internal/store"
	"github.com/samchan0221/mh-coding-task-2/internal/transport"
)

// HTTPTimeoutFactor scales the request timeout into the HTTP client
// timeout. A request abandoned at the local deadline keeps running on the
// wire until this larger bound, so the service can still finish it and
// cache the reply for a resend.
const HTTPTimeoutFactor = 3

// Wire bundles the engine, transport, store and services for the CLI.
type Wire struct {
	Engine    *crypto.Engine
	Transport domain.Transport
	State     domain.StateStore
	Client    *client.Client
	Cards     *cards.Service
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	keys, err := cfg.Keys.Parse()
	if err != nil {
		return nil, err
	}
	engine, err := crypto.NewEngine(keys)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: HTTPTimeoutFactor * cfg.Timeout}
	}
	tr := &transport.HTTP{Base: cfg.Host, HTTP: httpClient}

	c := client.New(engine, tr, client.Options{
		DeviceID:   cfg.DeviceID,
		Version:    cfg.Version,
		VersionKey: cfg.VersionKey,
		Timeout:    cfg.Timeout,
		Log:        logging.For("client"),
	})

	return &Wire{
		Engine:    engine,
		Transport: tr,
		State:     store.NewStateFileStore(cfg.Home),
		Client:    c,
		Cards:     cards.New(c),
	}, nil
}

// Load restores persisted client state. It reports whether any was found.
func (w *Wire) Load(passphrase string) (bool, error) {
	st, ok, err := w.State.LoadState(passphrase)
	if err != nil || !ok {
		return false, err
	}
	if st.DeviceID != "" && st.DeviceID != w.Client.DeviceID() {
		return false, fmt.Errorf("saved state belongs to device %q, config says %q", st.DeviceID, w.Client.DeviceID())
	}
	w.Client.Restore(st)
	w.Cards.Restore(st.Cards)
	return true, nil
}

// Save persists the current client state.
func (w *Wire) Save(passphrase string) error {
	st := w.Client.Snapshot()
	st.Cards = w.Cards.Cards()
	return w.State.SaveState(passphrase, st)
}
