package health

import (
	"fmt"
	"net/http"
	"sync"

	"sigs.k8s.io/controller-runtime/pkg/healthz"
)

// State tracks the two health signals the converter exposes: whether the
// watch is currently alive, and whether the most recent conversion pass
// failed. The state is surfaced through the manager's probe endpoints; the
// converter itself serves no HTTP.
type State struct {
	mutex         sync.RWMutex
	watchAlive    bool
	lastPassError error
}

// NewState returns a State that reports not-alive until the watch starts.
func NewState() *State {
	return &State{}
}

// SetWatchAlive records whether the source watch is running.
func (state *State) SetWatchAlive(alive bool) {
	state.mutex.Lock()
	defer state.mutex.Unlock()

	state.watchAlive = alive
}

// RecordPass records the outcome of the most recent conversion pass.
func (state *State) RecordPass(err error) {
	state.mutex.Lock()
	defer state.mutex.Unlock()

	state.lastPassError = err
}

// WatchAlive reports whether the source watch is running.
func (state *State) WatchAlive() bool {
	state.mutex.RLock()
	defer state.mutex.RUnlock()

	return state.watchAlive
}

// LastPassFailed reports whether the most recent conversion pass returned an error.
func (state *State) LastPassFailed() bool {
	state.mutex.RLock()
	defer state.mutex.RUnlock()

	return state.lastPassError != nil
}

// LiveCheck is a healthz.Checker that fails when the watch has stopped.
func (state *State) LiveCheck(_ *http.Request) error {
	if !state.WatchAlive() {
		return fmt.Errorf("source watch is not running")
	}

	return nil
}

// ReadyCheck is a healthz.Checker that fails until the watch is alive and the
// most recent conversion pass succeeded.
func (state *State) ReadyCheck(_ *http.Request) error {
	state.mutex.RLock()
	defer state.mutex.RUnlock()

	if !state.watchAlive {
		return fmt.Errorf("source watch is not running")
	}

	if state.lastPassError != nil {
		return fmt.Errorf("last conversion pass failed: %w", state.lastPassError)
	}

	return nil
}

var _ healthz.Checker = (&State{}).LiveCheck
var _ healthz.Checker = (&State{}).ReadyCheck
