package board

import (
	"context"
	"sync"
	"sync/atomic"
)

// Registry hands out the shared board connection, creating it lazily on
// first acquisition. At most one live transport exists per Registry;
// concurrent first acquisitions perform exactly one physical open.
//
// A failed acquisition is sticky: every subsequent Acquire returns the
// original error (same sentinel class) until Close resets the registry.
// Callers borrow the returned *Connection; they must not close it
// directly; shutdown goes through Registry.Close.
type Registry struct {
	cfg Config

	// ready is the fast path: set only once the connection is usable.
	ready atomic.Pointer[Connection]

	mu   sync.Mutex
	conn *Connection
	err  error
}

// NewRegistry creates a registry for the given connection configuration.
// No transport is opened until the first Acquire.
func NewRegistry(cfg Config) *Registry {
	return &Registry{cfg: cfg}
}

// Acquire returns the shared connection, establishing it on first use.
func (r *Registry) Acquire() (*Connection, error) {
	return r.AcquireContext(context.Background())
}

// AcquireContext is Acquire with a caller-supplied context bounding link
// establishment. The context is ignored on the fast path (connection
// already Ready).
func (r *Registry) AcquireContext(ctx context.Context) (*Connection, error) {
	if c := r.ready.Load(); c != nil && c.State() == StateReady {
		return c, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Re-check under the lock: another caller may have connected while
	// we waited.
	if r.conn != nil && r.conn.State() == StateReady {
		return r.conn, nil
	}
	if r.err != nil {
		return nil, r.err
	}
	if r.cfg.Dial == nil {
		return nil, ErrNoTransport
	}

	c, err := Connect(ctx, r.cfg)
	if err != nil {
		r.err = err
		return nil, err
	}

	r.conn = c
	r.ready.Store(c)
	return c, nil
}

// State reports the lifecycle state of the shared connection, or
// StateUninitialized if none has been attempted yet.
func (r *Registry) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conn != nil {
		return r.conn.State()
	}
	if r.err != nil {
		return StateFailed
	}
	return StateUninitialized
}

// Close shuts the shared connection down and resets the registry so a
// later Acquire establishes a fresh link. Safe to call when nothing was
// ever acquired.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.err = nil
	r.ready.Store(nil)
	if r.conn == nil {
		return nil
	}
	err := r.conn.Close()
	r.conn = nil
	return err
}

// Process-wide default registry. Device facades fall back to this when
// constructed without an explicit registry, mirroring the convenience of
// a shared board while keeping configuration explicit: seed it once with
// SetDefault before constructing devices.
var (
	defaultMu  sync.Mutex
	defaultReg *Registry
)

// Default returns the process-wide registry, creating an unconfigured one
// (whose Acquire fails with ErrNoTransport) if SetDefault was never
// called.
func Default() *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultReg == nil {
		defaultReg = NewRegistry(Config{})
	}
	return defaultReg
}

// SetDefault installs the process-wide registry. Replacing the default
// does not close a previously installed registry's connection; callers
// own that lifecycle.
func SetDefault(r *Registry) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultReg = r
}
