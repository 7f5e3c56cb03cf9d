package logging

import (
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	EnvLogLevel     = "CARDCTL_LOG_LEVEL"
	EnvLogFormat    = "CARDCTL_LOG_FORMAT"
	EnvLogTimestamp = "CARDCTL_LOG_TIMESTAMP"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Options are the settings read from the [log] section of the config file.
// Empty fields keep the profile default.
type Options struct {
	Level  string `toml:"level" validate:"omitempty,oneof=trace debug info warn warning error off"`
	Format string `toml:"format" validate:"omitempty,oneof=text json"`
}

var configureOnce sync.Once

func ConfigureRuntime(opts Options) {
	Configure(ProfileRuntime, opts)
}

func ConfigureTests() {
	Configure(ProfileTest, Options{})
}

// Configure sets up the standard logrus logger. Only the first call in a
// process has any effect.
func Configure(profile Profile, opts Options) {
	configureOnce.Do(func() {
		Apply(logrus.StandardLogger(), profile, opts)
	})
}

// Apply configures l from the profile defaults, then opts, then the
// environment.
func Apply(l *logrus.Logger, profile Profile, opts Options) {
	level, format, timestamp := defaults(profile)
	if lvl, ok := parseLevel(opts.Level); ok {
		level = lvl
	}
	if f, ok := parseFormat(opts.Format); ok {
		format = f
	}
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		level = lvl
	}
	if f, ok := parseFormat(os.Getenv(EnvLogFormat)); ok {
		format = f
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		timestamp = v
	}

	if level == levelOff {
		l.SetOutput(io.Discard)
		level = logrus.PanicLevel
	}
	l.SetLevel(level)
	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{DisableTimestamp: !timestamp})
	default:
		l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: !timestamp, FullTimestamp: timestamp})
	}
}

// For returns an entry tagged with the component name.
func For(component string) *logrus.Entry {
	return logrus.WithField("component", component)
}

func defaults(profile Profile) (logrus.Level, string, bool) {
	switch profile {
	case ProfileTest:
		return logrus.DebugLevel, "text", false
	default:
		return logrus.InfoLevel, "text", true
	}
}

// levelOff is a sentinel for "off"; it is never handed to logrus.
const levelOff = logrus.Level(math.MaxUint32)

func parseLevel(raw string) (logrus.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return logrus.InfoLevel, false
	case "trace":
		return logrus.TraceLevel, true
	case "debug":
		return logrus.DebugLevel, true
	case "info":
		return logrus.InfoLevel, true
	case "warn", "warning":
		return logrus.WarnLevel, true
	case "error":
		return logrus.ErrorLevel, true
	case "off", "none", "disabled":
		return levelOff, true
	default:
		return logrus.InfoLevel, false
	}
}

func parseFormat(raw string) (string, bool) {
	switch f := strings.ToLower(strings.TrimSpace(raw)); f {
	case "text", "json":
		return f, true
	default:
		return "", false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
