package board

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/firmatazero/firmatazero-go/pkg/log"
)

// Connection states.
type State int32

const (
	// StateUninitialized indicates no physical link has been attempted.
	StateUninitialized State = iota

	// StateConnecting indicates link establishment in progress.
	StateConnecting

	// StateReady indicates the link is established and handshaken.
	StateReady

	// StateFailed indicates link establishment failed. The failure is
	// final for this Connection value.
	StateFailed

	// StateClosed indicates the connection was shut down explicitly.
	StateClosed
)

// String returns the connection state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateConnecting:
		return "CONNECTING"
	case StateReady:
		return "READY"
	case StateFailed:
		return "FAILED"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// DefaultHandshakeTimeout bounds the protocol handshake during connect.
const DefaultHandshakeTimeout = 5 * time.Second

// Config configures a board connection.
type Config struct {
	// Dial opens the byte transport to the board (typically a closure
	// over transport.Open). Required.
	Dial func() (io.ReadWriteCloser, error)

	// Protocol binds the opened transport to the firmware protocol
	// layer. Required.
	Protocol ProtocolFactory

	// PortName labels the transport endpoint in log events.
	PortName string

	// Logger receives board events. Nil disables logging.
	Logger log.Logger

	// HandshakeTimeout bounds the protocol handshake
	// (default: DefaultHandshakeTimeout).
	HandshakeTimeout time.Duration
}

// Connection owns the one physical transport to the board. It hands out
// pin capability handles and serializes every protocol exchange so that
// concurrent device operations never interleave on the wire.
//
// Connections are created by a Registry (or Connect directly) and shared
// by reference across device facades.
type Connection struct {
	id       string
	portName string
	logger   log.Logger

	transport io.ReadWriteCloser
	client    ProtocolClient

	state atomic.Int32

	// ioMu is the access serializer: the single exclusion domain for
	// every wire-touching operation. Granularity is one pin operation;
	// compound device actions lock once per primitive.
	ioMu sync.Mutex

	// pinMu guards the handle cache. Ordered before ioMu.
	pinMu sync.Mutex
	pins  map[pinKey]*Pin

	closeOnce sync.Once
}

// Connect opens the transport, binds the protocol layer and performs the
// handshake. On failure the returned error wraps ErrConnection and the
// connection is left in StateFailed.
func Connect(ctx context.Context, cfg Config) (*Connection, error) {
	c := &Connection{
		id:       uuid.NewString(),
		portName: cfg.PortName,
		logger:   log.OrNoop(cfg.Logger),
		pins:     make(map[pinKey]*Pin),
	}
	c.state.Store(int32(StateUninitialized))

	if cfg.Dial == nil {
		return nil, ErrNoTransport
	}
	if cfg.Protocol == nil {
		return nil, fmt.Errorf("%w: no protocol factory configured", ErrConnection)
	}

	c.setState(StateUninitialized, StateConnecting, "")

	rw, err := cfg.Dial()
	if err != nil {
		c.fail("transport open", err)
		return nil, fmt.Errorf("open transport: %w: %v", ErrConnection, err)
	}
	c.transport = rw

	client, err := cfg.Protocol(rw)
	if err != nil {
		rw.Close()
		c.fail("protocol init", err)
		return nil, fmt.Errorf("bind protocol: %w: %v", ErrConnection, err)
	}
	c.client = client

	timeout := cfg.HandshakeTimeout
	if timeout == 0 {
		timeout = DefaultHandshakeTimeout
	}
	hsCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Handshake(hsCtx); err != nil {
		client.Close()
		rw.Close()
		c.fail("handshake", err)
		return nil, fmt.Errorf("handshake: %w: %v", ErrConnection, err)
	}

	c.setState(StateConnecting, StateReady, "")
	return c, nil
}

// ID returns the connection's unique identifier.
func (c *Connection) ID() string {
	return c.id
}

// State returns the current connection state.
func (c *Connection) State() State {
	return State(c.state.Load())
}

// GetPin resolves a capability string ("kind:number:mode") to a pin
// handle. The first request for a pin sends exactly one mode-configure
// command; repeated requests with the same mode return the same handle
// with no wire traffic. Requesting a configured pin with a different mode
// fails with ErrPinModeConflict.
func (c *Connection) GetPin(spec string) (*Pin, error) {
	addr, err := ParsePinSpec(spec)
	if err != nil {
		return nil, err
	}
	return c.Pin(addr)
}

// Pin resolves a structured pin address to a handle. See GetPin.
func (c *Connection) Pin(addr PinAddress) (*Pin, error) {
	if err := addr.ID.validate(); err != nil {
		return nil, err
	}
	if err := c.requireReady(); err != nil {
		return nil, err
	}

	c.pinMu.Lock()
	defer c.pinMu.Unlock()

	key := pinKey{kind: addr.Kind, id: addr.ID}
	if existing, ok := c.pins[key]; ok {
		if existing.addr.Mode != addr.Mode {
			return nil, fmt.Errorf("%w: pin %s already configured as %s, requested %s",
				ErrPinModeConflict, addr.ID, existing.addr.Mode, addr.Mode)
		}
		return existing, nil
	}

	// First request for this pin: configure exactly once.
	err := c.exclusive(func(pc ProtocolClient) error {
		return pc.ConfigurePin(addr)
	})
	if err != nil {
		c.logError(err, "pin configure", addr.ID)
		return nil, wireError("configure pin "+addr.ID.String(), err)
	}
	c.logPinOp(addr, logOpConfigure, nil)

	p := &Pin{conn: c, addr: addr}
	c.pins[key] = p
	return p, nil
}

// ServoSettings carries the one-shot servo configuration sent at servo-pin
// acquisition time.
type ServoSettings struct {
	// MinPulse is the pulse width at the servo's minimum position.
	MinPulse time.Duration

	// MaxPulse is the pulse width at the servo's maximum position.
	MaxPulse time.Duration

	// InitialAngle is the starting angle in degrees.
	InitialAngle int
}

// ServoConfig sends the servo pulse-width range and initial angle for a
// pin. Fails with ErrServoConfig if the pulse bounds are non-positive or
// inverted.
func (c *Connection) ServoConfig(id PinID, settings ServoSettings) error {
	if settings.MinPulse <= 0 || settings.MaxPulse <= 0 {
		return fmt.Errorf("%w: pulse widths must be positive (min=%v, max=%v)",
			ErrServoConfig, settings.MinPulse, settings.MaxPulse)
	}
	if settings.MinPulse >= settings.MaxPulse {
		return fmt.Errorf("%w: min pulse %v must be below max pulse %v",
			ErrServoConfig, settings.MinPulse, settings.MaxPulse)
	}
	if err := c.requireReady(); err != nil {
		return err
	}

	minUS := int(settings.MinPulse.Microseconds())
	maxUS := int(settings.MaxPulse.Microseconds())

	err := c.exclusive(func(pc ProtocolClient) error {
		return pc.ServoConfig(id, minUS, maxUS, settings.InitialAngle)
	})
	if err != nil {
		c.logError(err, "servo config", id)
		return wireError("servo config pin "+id.String(), err)
	}

	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Layer:        log.LayerProtocol,
		Category:     log.CategoryConfig,
		Pin:          id.String(),
		Port:         c.portName,
		ServoConfig: &log.ServoConfigEvent{
			MinPulseUS: minUS,
			MaxPulseUS: maxUS,
			AngleDeg:   settings.InitialAngle,
		},
	})
	return nil
}

// Close shuts down the protocol layer and the transport. It is safe to
// call multiple times; operations on a closed connection fail with
// ErrClosed. A blocked operation finishes before the transport is torn
// down.
func (c *Connection) Close() error {
	var closeErr error
	c.closeOnce.Do(func() {
		prev := c.State()
		if prev == StateUninitialized {
			c.state.Store(int32(StateClosed))
			return
		}

		// Wait for any in-flight operation, then fence new ones.
		c.ioMu.Lock()
		c.state.Store(int32(StateClosed))
		c.ioMu.Unlock()

		if c.client != nil {
			closeErr = c.client.Close()
		}
		if c.transport != nil {
			if err := c.transport.Close(); closeErr == nil {
				closeErr = err
			}
		}
		c.emitState(prev, StateClosed, "")
	})
	return closeErr
}

// exclusive runs one protocol operation while holding the access
// serializer. It never calls back into facade code while held, so there
// is no deadlock risk; a blocked operation waits indefinitely.
func (c *Connection) exclusive(op func(ProtocolClient) error) error {
	c.ioMu.Lock()
	defer c.ioMu.Unlock()

	if c.State() == StateClosed {
		return ErrClosed
	}
	return op(c.client)
}

func (c *Connection) requireReady() error {
	switch c.State() {
	case StateReady:
		return nil
	case StateClosed:
		return ErrClosed
	default:
		return fmt.Errorf("%w: connection not ready (state %s)", ErrConnection, c.State())
	}
}

func (c *Connection) fail(context string, err error) {
	prev := c.State()
	c.state.Store(int32(StateFailed))
	c.emitState(prev, StateFailed, context+": "+err.Error())
}

func (c *Connection) setState(from, to State, reason string) {
	c.state.Store(int32(to))
	c.emitState(from, to, reason)
}

func (c *Connection) emitState(from, to State, reason string) {
	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Layer:        log.LayerTransport,
		Category:     log.CategoryState,
		Port:         c.portName,
		StateChange: &log.StateChangeEvent{
			OldState: from.String(),
			NewState: to.String(),
			Reason:   reason,
		},
	})
}

// Log operation aliases, local so pin.go reads naturally.
const (
	logOpConfigure = log.PinOpConfigure
	logOpRead      = log.PinOpRead
	logOpWrite     = log.PinOpWrite
)

func (c *Connection) logPinOp(addr PinAddress, op log.PinOp, value *int) {
	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Layer:        log.LayerProtocol,
		Category:     log.CategoryPinOp,
		Pin:          addr.ID.String(),
		Port:         c.portName,
		PinOp: &log.PinOpEvent{
			Op:    op,
			Mode:  addr.Mode.String(),
			Value: value,
		},
	})
}

func (c *Connection) logError(err error, opContext string, id PinID) {
	c.logger.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Layer:        log.LayerProtocol,
		Category:     log.CategoryError,
		Pin:          id.String(),
		Port:         c.portName,
		Error: &log.ErrorEventData{
			Layer:   log.LayerProtocol,
			Message: err.Error(),
			Context: opContext,
		},
	})
}

// wireError classifies an operation failure. Errors already carrying one
// of the package sentinels pass through; anything else from the protocol
// layer is a protocol error.
func wireError(opContext string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrClosed),
		errors.Is(err, ErrProtocol),
		errors.Is(err, ErrConnection),
		errors.Is(err, ErrServoConfig):
		return fmt.Errorf("%s: %w", opContext, err)
	default:
		return fmt.Errorf("%s: %w: %v", opContext, ErrProtocol, err)
	}
}
