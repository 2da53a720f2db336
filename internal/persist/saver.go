package persist

import (
	"context"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/xolan/breakruptcy/internal/logging"
	"github.com/xolan/breakruptcy/internal/timer"
)

// Default save cadence.
const (
	DefaultDebounce = time.Second
	DefaultInterval = 10 * time.Second
	// writeTimeout bounds a single store write.
	writeTimeout = 5 * time.Second
)

// SaverOptions configures a Saver. Zero values use the defaults.
type SaverOptions struct {
	Debounce time.Duration
	Interval time.Duration
	Logger   hclog.Logger
}

// Saver decides when session snapshots reach the store.
//
// Every Save restarts a debounce timer; the latest snapshot is written once
// the timer fires. Independently, a periodic loop writes the latest snapshot
// on a fixed cadence, so a session that keeps changing faster than the
// debounce is still saved. Close stops both and flushes synchronously.
//
// Only snapshots newer than the last write are written. Write errors are
// logged and the snapshot stays pending for the next attempt.
type Saver struct {
	adapter  *Adapter
	logger   hclog.Logger
	debounce time.Duration

	// writeMu serializes store writes so an older snapshot never lands
	// after a newer one or after a Discard.
	writeMu sync.Mutex

	mu      sync.Mutex
	latest  timer.State
	dirty   bool
	pending *time.Timer
	gen     uint64
	closed  bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSaver starts the periodic loop. initial is the snapshot written by the
// periodic and final saves until Save is first called; it is not dirty.
func NewSaver(adapter *Adapter, initial timer.State, opts SaverOptions) *Saver {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Saver{
		adapter:  adapter,
		logger:   logging.OrNull(opts.Logger),
		debounce: opts.Debounce,
		latest:   initial,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go s.run(ctx, opts.Interval)
	return s
}

// Save records state as the latest snapshot and (re)starts the debounce.
func (s *Saver) Save(state timer.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.logger.Debug("save after close ignored")
		return
	}
	s.latest = state
	s.dirty = true

	s.stopPendingLocked()
	gen := s.gen
	s.pending = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		stale := gen != s.gen || s.closed
		s.mu.Unlock()
		if stale {
			return
		}
		_ = s.flush("debounce")
	})
}

// Discard cancels any pending write, deletes the session record and makes
// fresh the latest snapshot. fresh is not written until the next Save.
func (s *Saver) Discard(fresh timer.State) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	s.stopPendingLocked()
	s.latest = fresh
	s.dirty = false
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := s.adapter.ClearSession(ctx); err != nil {
		s.logger.Error("failed to clear session", "error", err)
		return
	}
	s.logger.Debug("session cleared")
}

// Latest returns the most recent snapshot handed to the saver.
func (s *Saver) Latest() timer.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Close stops the debounce and the periodic loop, then writes the latest
// snapshot if it is newer than the last write. Calling Close again is a no-op.
func (s *Saver) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.stopPendingLocked()
	s.mu.Unlock()

	s.cancel()
	<-s.done

	return s.flush("close")
}

func (s *Saver) run(ctx context.Context, interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.flush("periodic")
		}
	}
}

// flush writes the latest snapshot if it is dirty.
func (s *Saver) flush(reason string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	state := s.latest
	s.dirty = false
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := s.adapter.SaveNow(ctx, state); err != nil {
		s.logger.Error("failed to save session", "reason", reason, "error", err)
		s.mu.Lock()
		// A newer Save may have arrived meanwhile; either way something is pending.
		s.dirty = true
		s.mu.Unlock()
		return err
	}
	s.logger.Trace("session saved", "reason", reason)
	return nil
}

// stopPendingLocked cancels the debounce timer. s.mu must be held.
func (s *Saver) stopPendingLocked() {
	s.gen++
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}
