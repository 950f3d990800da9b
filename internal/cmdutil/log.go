// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/writer"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// lockedWriter serializes hook writes; logrus fires hooks outside its own
// lock.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// NewLogger builds the run logger. Entries go only through writer hooks,
// one per destination, so the console and the log file can filter levels
// independently:
//
//	console: WARN+ (INFO+ with verbose, ERROR+ with quiet)
//	logfile: INFO+ (DEBUG+ with verbose)
//
// The returned Closer closes the log file, if any.
func NewLogger(stderr io.Writer, verbose, quiet bool, logFile string) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()
	log.Out = io.Discard
	log.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		DisableSorting:   false,
		QuoteEmptyFields: true,
	}
	log.Level = logrus.InfoLevel
	if verbose {
		log.Level = logrus.DebugLevel
	}

	console := logrus.WarnLevel
	switch {
	case quiet:
		console = logrus.ErrorLevel
	case verbose:
		console = logrus.InfoLevel
	}
	log.AddHook(&writer.Hook{Writer: &lockedWriter{w: stderr}, LogLevels: upTo(console)})

	if logFile == "" {
		return log, nopCloser{}, nil
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	file := logrus.InfoLevel
	if verbose {
		file = logrus.DebugLevel
	}
	log.AddHook(&writer.Hook{Writer: &lockedWriter{w: f}, LogLevels: upTo(file)})
	return log, f, nil
}

// upTo returns every level at or above max severity (logrus orders Panic
// lowest).
func upTo(max logrus.Level) []logrus.Level {
	var out []logrus.Level
	for _, l := range logrus.AllLevels {
		if l <= max {
			out = append(out, l)
		}
	}
	return out
}
