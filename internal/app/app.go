package app

import (
	"github.com/sirupsen/logrus"

	"github.com/samchan0221/mh-coding-task-2/internal/logging"
)

// App is the per-invocation context of the CLI: the wired dependencies
// plus the passphrase the state file is sealed with.
type App struct {
	*Wire
	Config Config

	passphrase string
	log        *logrus.Entry
}

// Open wires cfg and loads any saved client state.
func Open(cfg Config, passphrase string) (*App, error) {
	w, err := NewWire(cfg)
	if err != nil {
		return nil, err
	}
	a := &App{Wire: w, Config: cfg, passphrase: passphrase, log: logging.For("app")}
	found, err := w.Load(passphrase)
	if err != nil {
		return nil, err
	}
	a.log.WithFields(logrus.Fields{"home": cfg.Home, "restored": found}).Debug("state loaded")
	return a, nil
}

// Close saves the client state.
func (a *App) Close() error {
	if err := a.Save(a.passphrase); err != nil {
		return err
	}
	a.log.WithField("nonce", a.Client.Nonce()).Debug("state saved")
	return nil
}
