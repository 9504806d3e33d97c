// Package logging builds the diagnostic logger shared by the upgrade pipeline.
package logging

import (
	"bytes"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Prefix is printed in front of every diagnostic line.
const Prefix = "rancher-client"

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// New returns a logger writing to w at the named level.
// An empty level selects DefaultLevel; an unknown level is an error.
func New(w io.Writer, level string) (*log.Logger, error) {
	if strings.TrimSpace(level) == "" {
		level = DefaultLevel
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: Prefix,
	}), nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}

// OrDiscard returns logger, or a discarding logger when it is nil.
func OrDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}

// LineWriter returns a writer that logs each complete line at debug level
// under key. Close flushes a trailing partial line.
func LineWriter(logger *log.Logger, key string) io.WriteCloser {
	return &lineWriter{logger: OrDiscard(logger), key: key}
}

type lineWriter struct {
	logger *log.Logger
	key    string
	buf    []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		idx := bytes.IndexByte(w.buf, '\n')
		if idx < 0 {
			break
		}
		w.emit(string(w.buf[:idx]))
		w.buf = w.buf[idx+1:]
	}
	return len(p), nil
}

func (w *lineWriter) Close() error {
	if len(w.buf) > 0 {
		w.emit(string(w.buf))
		w.buf = nil
	}
	return nil
}

func (w *lineWriter) emit(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	w.logger.Debug(line, "source", w.key)
}
