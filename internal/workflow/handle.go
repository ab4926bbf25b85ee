package workflow

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStopped signals a cooperative stop: the batch ends after the
// in-flight document completes, with partial totals intact.
var ErrStopped = errors.New("run stopped")

type runState int

const (
	stateRunning runState = iota
	statePaused
	stateStopped
)

// Handle exposes cooperative pause/resume/stop for one run. The
// orchestrator polls it between documents and before session-affecting
// phases, never mid-extraction.
type Handle struct {
	mu           sync.Mutex
	state        runState
	pollInterval time.Duration
}

func newHandle() *Handle {
	return &Handle{pollInterval: 200 * time.Millisecond}
}

func (h *Handle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == stateRunning {
		h.state = statePaused
	}
}

func (h *Handle) Resume() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == statePaused {
		h.state = stateRunning
	}
}

// Stop requests termination. Stop wins over a pending pause.
func (h *Handle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state = stateStopped
}

func (h *Handle) snapshot() runState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// checkpoint blocks while paused and returns ErrStopped once a stop is
// requested. It is the only suspension point the orchestrator uses.
func (h *Handle) checkpoint(ctx context.Context) error {
	for {
		switch h.snapshot() {
		case stateRunning:
			return nil
		case stateStopped:
			return ErrStopped
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(h.pollInterval):
		}
	}
}
