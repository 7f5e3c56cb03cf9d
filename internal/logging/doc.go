// Package logging configures the process-wide logrus logger.
//
// Defaults depend on the profile (runtime or test) and may be overridden by
// the [log] section of the config file and then by CARDCTL_LOG_LEVEL,
// CARDCTL_LOG_FORMAT and CARDCTL_LOG_TIMESTAMP.
package logging
