package main

import (
	"io"
	"os"

	"github.com/decred/slog"
)

type loggers struct {
	main slog.Logger
	peer slog.Logger
	netw slog.Logger
	brkr slog.Logger

	closer io.Closer
}

// newLoggers opens one backend for the process. With path empty it logs to
// stderr, which a live board will draw over.
func newLoggers(level slog.Level, path, peerTag string) (*loggers, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		w, closer = f, f
	}
	backend := slog.NewBackend(w)
	sub := func(tag string) slog.Logger {
		l := backend.Logger(tag)
		l.SetLevel(level)
		return l
	}
	return &loggers{
		main:   sub("MAIN"),
		peer:   sub(peerTag),
		netw:   sub("NETW"),
		brkr:   sub("BRKR"),
		closer: closer,
	}, nil
}

func (l *loggers) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
