package logging

import (
	"io"
	"log/slog"
	"os"
)

// New builds the process logger: JSON records at the given level, written to
// stderr and mirrored to logFile when one is configured. The logger is also
// installed as the slog default. Callers must defer the returned func; it
// closes the log file if one was opened.
func New(level slog.Level, logFile string) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	cleanup := func() {}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, err
		}
		w = io.MultiWriter(os.Stderr, f)
		cleanup = func() { _ = f.Close() }
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger, cleanup, nil
}
