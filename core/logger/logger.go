package logger

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

const (
	envLoggingLevel  = "PROXY_LOGGING_LEVEL"
	envLoggingFormat = "PROXY_LOGGING_FORMAT"

	defaultLevel = logrus.WarnLevel

	FormatText = "text"
	FormatJSON = "json"
)

var (
	base       = logrus.New()
	lg         *logrus.Entry
	once       sync.Once
	configured atomic.Bool
)

// Logger returns the logger of the proxy engine.
// On first use it is configured from PROXY_LOGGING_LEVEL (default "warning")
// and PROXY_LOGGING_FORMAT ("text" or "json").
func Logger() *logrus.Entry {
	once.Do(func() {
		base.SetOutput(os.Stderr)
		if err := Configure(os.Getenv(envLoggingLevel), os.Getenv(envLoggingFormat)); err != nil {
			base.SetLevel(defaultLevel)
			base.WithError(err).Warn("invalid logging configuration, using defaults")
		}
		lg = base.WithField("module", "proxy")
	})

	return lg
}

// Configure sets the level and format of the engine logger.
// Empty values keep the defaults.
func Configure(level, format string) error {
	lvl := defaultLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}
		lvl = parsed
	}
	base.SetLevel(lvl)

	switch format {
	case FormatJSON:
		base.SetFormatter(&logrus.JSONFormatter{})
	default:
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000 MST",
		})
	}

	return nil
}

// Base returns the underlying logrus logger, e.g. to attach hooks in tests.
func Base() *logrus.Logger {
	return base
}
