package logging_test

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samchan0221/mh-coding-task-2/internal/logging"
)

func TestApply_ProfileDefaults(t *testing.T) {
	t.Setenv(logging.EnvLogLevel, "")
	t.Setenv(logging.EnvLogFormat, "")

	l := logrus.New()
	logging.Apply(l, logging.ProfileTest, logging.Options{})
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l = logrus.New()
	logging.Apply(l, logging.ProfileRuntime, logging.Options{})
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)
}

func TestApply_OptionsThenEnv(t *testing.T) {
	t.Setenv(logging.EnvLogLevel, "")
	t.Setenv(logging.EnvLogFormat, "")

	l := logrus.New()
	logging.Apply(l, logging.ProfileRuntime, logging.Options{Level: "warn", Format: "json"})
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)

	t.Setenv(logging.EnvLogLevel, "error")
	t.Setenv(logging.EnvLogFormat, "text")
	l = logrus.New()
	logging.Apply(l, logging.ProfileRuntime, logging.Options{Level: "warn", Format: "json"})
	assert.Equal(t, logrus.ErrorLevel, l.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)
}

func TestApply_UnknownValuesIgnored(t *testing.T) {
	t.Setenv(logging.EnvLogLevel, "loud")
	t.Setenv(logging.EnvLogFormat, "xml")

	l := logrus.New()
	logging.Apply(l, logging.ProfileRuntime, logging.Options{})
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, l.Formatter)
}

func TestApply_JSONOutput(t *testing.T) {
	t.Setenv(logging.EnvLogLevel, "")
	t.Setenv(logging.EnvLogFormat, "json")
	t.Setenv(logging.EnvLogTimestamp, "false")

	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	logging.Apply(l, logging.ProfileRuntime, logging.Options{})
	l.WithField("component", "client").Info("dispatch")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "client", rec["component"])
	assert.Equal(t, "dispatch", rec["msg"])
	assert.NotContains(t, rec, "time")
}

func TestApply_Off(t *testing.T) {
	t.Setenv(logging.EnvLogLevel, "off")
	t.Setenv(logging.EnvLogFormat, "")

	l := logrus.New()
	logging.Apply(l, logging.ProfileRuntime, logging.Options{})
	assert.Equal(t, io.Discard, l.Out)
}
