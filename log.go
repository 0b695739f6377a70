package main

import (
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

/* newLogger builds the CLI's logger: a stderr text handler at Info
   level, or at Debug level when verbose is set. When verbose is set
   and traceFile is non-empty, that handler is fanned out alongside a
   Debug-level JSON handler writing to traceFile. */
func newLogger(verbose bool, traceFile string) (*slog.Logger, func(), error) {
	stderrHandler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: levelFor(verbose),
	})

	if !verbose || traceFile == "" {
		return slog.New(stderrHandler), func() {}, nil
	}

	f, err := os.Create(traceFile)
	if err != nil {
		return nil, nil, err
	}
	fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})

	handler := slogmulti.Fanout(stderrHandler, fileHandler)
	return slog.New(handler), func() { f.Close() }, nil
}

func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
