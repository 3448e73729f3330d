package observability

import (
	"io"

	"github.com/charmbracelet/log"
)

// charmLogger adapts a charmbracelet logger to the Logger interface.
type charmLogger struct {
	l *log.Logger
}

// NewCharmLogger returns a Logger writing human-readable structured output
// to w. Verbose enables debug-level messages.
func NewCharmLogger(w io.Writer, verbose bool) Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return &charmLogger{l: log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})}
}

func kv(fields []Field) []interface{} {
	out := make([]interface{}, 0, 2*len(fields))
	for _, f := range fields {
		out = append(out, f.Key(), f.Value())
	}
	return out
}

func (c *charmLogger) Debug(msg string, fields ...Field) { c.l.Debug(msg, kv(fields)...) }
func (c *charmLogger) Info(msg string, fields ...Field)  { c.l.Info(msg, kv(fields)...) }
func (c *charmLogger) Warn(msg string, fields ...Field)  { c.l.Warn(msg, kv(fields)...) }
func (c *charmLogger) Error(msg string, fields ...Field) { c.l.Error(msg, kv(fields)...) }

func (c *charmLogger) With(fields ...Field) Logger {
	return &charmLogger{l: c.l.With(kv(fields)...)}
}
