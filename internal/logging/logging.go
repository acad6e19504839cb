// Package logging builds the logrus logger handed to clients and adapters.
package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Setup returns a logger writing to out. format is "json" or "text".
func Setup(level, format string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	var formatter logrus.Formatter
	switch strings.ToLower(format) {
	case "", "text":
		formatter = &logrus.TextFormatter{DisableTimestamp: true}
	case "json":
		formatter = &logrus.JSONFormatter{
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyLevel: "loglevel",
			},
		}
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return &logrus.Logger{
		Formatter: formatter,
		Out:       out,
		Level:     lvl,
		Hooks:     make(logrus.LevelHooks),
	}, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Track logs "<name>.Start" and returns a func that logs "<name>.Complete" or
// "<name>.Error" with the elapsed milliseconds.
func Track(log logrus.FieldLogger, name string) func(err error) {
	start := time.Now()
	log.Debugf("%s.Start", name)

	return func(err error) {
		entry := log.WithField("duration", time.Since(start).Milliseconds())
		if err != nil {
			entry.WithError(err).Errorf("%s.Error", name)
			return
		}
		entry.Debugf("%s.Complete", name)
	}
}
