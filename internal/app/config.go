package app

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/samchan0221/mh-coding-task-2/internal/client"
	"github.com/samchan0221/mh-coding-task-2/internal/crypto"
	"github.com/samchan0221/mh-coding-task-2/internal/logging"
)

// ConfigFile is the config file name inside the home directory.
const ConfigFile = "config.toml"

const DefaultHost = "http://127.0.0.1:8080"

// Config holds runtime wiring options for building the app.
type Config struct {
	Home       string        `validate:"required"`
	Host       string        `validate:"required,url"`
	DeviceID   string        `validate:"required"`
	Timeout    time.Duration `validate:"gt=0"`
	Version    string        `validate:"required"`
	VersionKey string        `validate:"required"`
	Keys       KeyConfig
	Log        logging.Options

	HTTP *http.Client `validate:"-"` // optional; defaults to a client with HTTPTimeoutFactor * Timeout
}

// KeyConfig holds the pre-shared keys in base64.
type KeyConfig struct {
	Encryption  string `toml:"encryption" validate:"required,base64"`
	SignPrivate string `toml:"sign_private" validate:"required,base64"`
	SignPublic  string `toml:"sign_public,omitempty" validate:"omitempty,base64"`
}

// Parse decodes the keys.
func (k KeyConfig) Parse() (crypto.Keys, error) {
	return crypto.ParseKeys(k.Encryption, k.SignPrivate, k.SignPublic)
}

// fileConfig is the TOML layout of config.toml.
type fileConfig struct {
	Host       string          `toml:"host"`
	DeviceID   string          `toml:"device_id"`
	Timeout    string          `toml:"timeout"`
	Version    string          `toml:"version"`
	VersionKey string          `toml:"version_key"`
	Keys       KeyConfig       `toml:"keys"`
	Log        logging.Options `toml:"log"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig(home string) Config {
	return Config{
		Home:       home,
		Host:       DefaultHost,
		Timeout:    client.DefaultTimeout,
		Version:    client.DefaultVersion,
		VersionKey: client.DefaultVersionKey,
	}
}

// LoadConfig reads path over the defaults. An empty path means
// home/config.toml; a missing file yields the defaults.
func LoadConfig(home, path string) (Config, error) {
	cfg := DefaultConfig(home)
	if path == "" {
		path = filepath.Join(home, ConfigFile)
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("host") {
		cfg.Host = strings.TrimRight(strings.TrimSpace(raw.Host), "/")
	}
	if meta.IsDefined("device_id") {
		cfg.DeviceID = raw.DeviceID
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if meta.IsDefined("version") {
		cfg.Version = raw.Version
	}
	if meta.IsDefined("version_key") {
		cfg.VersionKey = raw.VersionKey
	}
	if meta.IsDefined("keys") {
		cfg.Keys = raw.Keys
	}
	if meta.IsDefined("log") {
		cfg.Log = raw.Log
	}
	return cfg, nil
}

// Validate checks that cfg is complete enough to talk to the service.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SaveConfig writes the file-backed fields of cfg to path.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	enc := toml.NewEncoder(f)
	if err := enc.Encode(fileConfig{
		Host:       cfg.Host,
		DeviceID:   cfg.DeviceID,
		Timeout:    cfg.Timeout.String(),
		Version:    cfg.Version,
		VersionKey: cfg.VersionKey,
		Keys:       cfg.Keys,
		Log:        cfg.Log,
	}); err != nil {
		_ = f.Close()
		return fmt.Errorf("write config: %w", err)
	}
	return f.Close()
}
