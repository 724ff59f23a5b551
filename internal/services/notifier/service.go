// Package notifier provides the progress sink shared by the zeroize executors.
package notifier

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Tag identifies this process in log file lines.
const Tag = "junos-zeroize"

// TimeFormat is the timestamp layout of log file lines.
const TimeFormat = "2006-01-02 15:04:05,000"

// Event names.
const (
	EventLogin   = "LOGIN"
	EventZeroize = "ZEROIZE"
	EventDone    = "DONE"
	EventConsole = "CONSOLE"
)

// Notifier receives progress events. Notify never fails.
type Notifier interface {
	Notify(event, message string)
}

// Impl writes events to an optional log file and mirrors them to the logger.
type Impl struct {
	mu     sync.Mutex
	out    io.WriteCloser // nil when disabled
	logger zerolog.Logger
	now    func() time.Time
}

// New creates a notifier appending to path. An empty path, or a path that
// cannot be opened, yields a notifier that only logs at debug level.
func New(path string, logger zerolog.Logger) *Impl {
	n := &Impl{logger: logger, now: time.Now}
	if path == "" {
		return n
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec // operator supplied log path
	if err != nil {
		logger.Warn().Err(err).Str("logfile", path).Msg("cannot open log file, notifications disabled")
		return n
	}
	n.out = f
	return n
}

// NewWithWriter creates a notifier writing to w with a fixed clock (for testing).
func NewWithWriter(logger zerolog.Logger, w io.WriteCloser, now func() time.Time) *Impl {
	return &Impl{out: w, logger: logger, now: now}
}

// Discard returns a notifier with no log file.
func Discard(logger zerolog.Logger) *Impl {
	return New("", logger)
}

// Enabled reports whether events are written to a log file.
func (n *Impl) Enabled() bool {
	return n.out != nil
}

// Notify records event and message.
func (n *Impl) Notify(event, message string) {
	n.logger.Debug().Str("event", event).Msg(message)

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.out == nil {
		return
	}

	line := fmt.Sprintf("%s:%s:%s:%s\n", n.now().Format(TimeFormat), Tag, event, message)
	if _, err := io.WriteString(n.out, line); err != nil {
		n.logger.Debug().Err(err).Msg("failed to write log file line")
	}
}

// Close releases the log file.
func (n *Impl) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.out == nil {
		return nil
	}
	err := n.out.Close()
	n.out = nil
	return err
}
