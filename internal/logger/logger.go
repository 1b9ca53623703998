// Package logger holds the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the global logger. It is usable before Init is called so that
// packages and tests never see a nil logger.
var Log = logrus.New()

// Init configures Log from the LOG_LEVEL and LOG_FORMAT environment
// variables. Call it once from main.
func Init() {
	level, err := logrus.ParseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
	Log.SetOutput(os.Stderr)
}

// SetLevel overrides the level chosen by Init, e.g. from a -log-level flag.
func SetLevel(name string) error {
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return err
	}
	Log.SetLevel(level)
	return nil
}

// Silence discards all output. Used by tests.
func Silence() {
	Log.SetOutput(io.Discard)
}

// For returns an entry tagged with the given component name.
func For(component string) *logrus.Entry {
	return Log.WithField("component", component)
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
