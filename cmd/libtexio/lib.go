package main

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/jmgilman/texio/boundary"
	"github.com/jmgilman/texio/config"
	"github.com/jmgilman/texio/errors"
)

var (
	mu      sync.Mutex
	adapter *boundary.Adapter
)

// current returns the live adapter, or nil before initialization.
func current() *boundary.Adapter {
	mu.Lock()
	defer mu.Unlock()
	return adapter
}

// start loads the configuration at path and installs a new adapter. A
// previous adapter is shut down first.
func start(path string) error {
	ctx := context.Background()
	cfg, err := config.Load(ctx, path)
	if err != nil {
		return err
	}
	e, err := config.Build(ctx, cfg)
	if err != nil {
		return err
	}

	mu.Lock()
	prev := adapter
	adapter = boundary.New(e)
	mu.Unlock()

	if prev != nil {
		if err := prev.Close(); err != nil {
			slog.Warn("failed to close previous engine", "error", err)
		}
	}
	return nil
}

// stop closes the adapter and its engine. Stopping twice is harmless.
func stop() error {
	mu.Lock()
	prev := adapter
	adapter = nil
	mu.Unlock()

	if prev == nil {
		return nil
	}
	return prev.Close()
}

func reportStartup(op string, err error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger.Error(op+" failed", "error", err, "code", string(errors.GetCode(err)))
}

func outputOpen(name string, gz bool) uint64 {
	if a := current(); a != nil {
		return a.OutputOpen(name, gz)
	}
	return boundary.Null
}

func outputOpenStdout() uint64 {
	if a := current(); a != nil {
		return a.OutputOpenStdout()
	}
	return boundary.Null
}

func outputPutc(t uint64, c int) int {
	if a := current(); a != nil {
		return a.OutputPutc(t, c)
	}
	return boundary.EOF
}

func outputWrite(t uint64, p []byte) int {
	if a := current(); a != nil {
		return a.OutputWrite(t, p)
	}
	return 0
}

func outputFlush(t uint64) int {
	if a := current(); a != nil {
		return a.OutputFlush(t)
	}
	return 1
}

func outputClose(t uint64) int {
	if t == boundary.Null {
		return 0
	}
	if a := current(); a != nil {
		return a.OutputClose(t)
	}
	return 1
}

func inputOpen(name string, code int, gz bool) uint64 {
	if a := current(); a != nil {
		return a.InputOpen(name, code, gz)
	}
	return boundary.Null
}

func inputGetSize(t uint64) int64 {
	if a := current(); a != nil {
		return a.InputGetSize(t)
	}
	return 0
}

func inputSeek(t uint64, offset int64, whence int) int64 {
	if a := current(); a != nil {
		return a.InputSeek(t, offset, whence)
	}
	return -1
}

func inputGetc(t uint64) int {
	if a := current(); a != nil {
		return a.InputGetc(t)
	}
	return boundary.GetcFailure
}

func inputUngetc(t uint64, c int) int {
	if a := current(); a != nil {
		return a.InputUngetc(t, c)
	}
	return -1
}

func inputRead(t uint64, p []byte) int64 {
	if a := current(); a != nil {
		return a.InputRead(t, p)
	}
	return -1
}

func inputClose(t uint64) int {
	if t == boundary.Null {
		return 0
	}
	if a := current(); a != nil {
		return a.InputClose(t)
	}
	return 1
}
