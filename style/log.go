package style

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// session mirrors labelled screen messages into a log file.
// The zero value (zerolog.Nop) discards everything.
var session = zerolog.Nop()

// OpenLog starts mirroring messages to the file at path (appending).
// The returned closer stops mirroring and closes the file.
func OpenLog(path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	SetLogger(zerolog.New(zerolog.ConsoleWriter{
		Out:        f,
		NoColor:    true,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger())

	return closerFunc(func() error {
		SetLogger(zerolog.Nop())
		return f.Close()
	}), nil
}

// SetLogger replaces the session logger.
func SetLogger(l zerolog.Logger) {
	session = l
}

func record(level zerolog.Level, msg string) {
	session.WithLevel(level).Msg(msg)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
