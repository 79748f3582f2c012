package testutil

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
)

// LogRecorder captures structured log output for assertions.
type LogRecorder struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewLogger returns a debug-level text logger writing into a fresh recorder.
func NewLogger() (*slog.Logger, *LogRecorder) {
	rec := &LogRecorder{}
	return slog.New(slog.NewTextHandler(rec, &slog.HandlerOptions{Level: slog.LevelDebug})), rec
}

func (r *LogRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

func (r *LogRecorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

// Contains reports whether any captured line contains every fragment.
func (r *LogRecorder) Contains(fragments ...string) bool {
	for _, line := range strings.Split(r.String(), "\n") {
		matched := true
		for _, f := range fragments {
			if !strings.Contains(line, f) {
				matched = false
				break
			}
		}
		if matched && line != "" {
			return true
		}
	}
	return false
}
