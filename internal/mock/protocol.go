// Package mock provides a scripted in-memory protocol client and
// transport for testing the board core and for the console's simulate
// mode. The mock records every wire operation and detects interleaved
// (non-serialized) access.
package mock

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/firmatazero/firmatazero-go/pkg/board"
)

// Op records one wire operation observed by the mock protocol client.
type Op struct {
	// Kind is one of "handshake", "configure", "servo_config", "read",
	// "write", "close".
	Kind string

	// Pin is the pin identifier, empty for handshake/close.
	Pin string

	// Mode is the pin mode for configure/read/write.
	Mode string

	// Value is the value written (write) or returned (read).
	Value int

	// Servo configuration parameters (servo_config only).
	MinPulseUS int
	MaxPulseUS int
	AngleDeg   int
}

// Protocol is a scripted board.ProtocolClient. The zero value is not
// usable; create with NewProtocol.
//
// Protocol deliberately does no internal locking around the operation
// body: if two operations ever overlap, the access serializer above it is
// broken and Interleaved reports true.
type Protocol struct {
	// Failure injection. Set before use.
	HandshakeErr error
	ConfigureErr error
	ServoErr     error
	ReadErr      error
	WriteErr     error

	// OpDelay widens each operation's critical section, making
	// serialization violations much more likely to be observed.
	OpDelay time.Duration

	inFlight    atomic.Int32
	interleaved atomic.Bool
	closed      atomic.Bool

	mu     sync.Mutex
	ops    []Op
	values map[string]int
}

// NewProtocol creates a mock protocol client with no scripted failures.
func NewProtocol() *Protocol {
	return &Protocol{values: make(map[string]int)}
}

// Factory returns a board.ProtocolFactory that yields this instance,
// ignoring the transport.
func (p *Protocol) Factory() board.ProtocolFactory {
	return func(io.ReadWriteCloser) (board.ProtocolClient, error) {
		return p, nil
	}
}

// Handshake implements board.ProtocolClient.
func (p *Protocol) Handshake(ctx context.Context) error {
	defer p.enterOp()()
	if p.HandshakeErr != nil {
		return p.HandshakeErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	p.record(Op{Kind: "handshake"})
	return nil
}

// ConfigurePin implements board.ProtocolClient.
func (p *Protocol) ConfigurePin(addr board.PinAddress) error {
	defer p.enterOp()()
	if p.ConfigureErr != nil {
		return p.ConfigureErr
	}
	p.record(Op{Kind: "configure", Pin: addr.ID.String(), Mode: addr.Mode.String()})
	return nil
}

// ServoConfig implements board.ProtocolClient.
func (p *Protocol) ServoConfig(id board.PinID, minPulseUS, maxPulseUS, angleDeg int) error {
	defer p.enterOp()()
	if p.ServoErr != nil {
		return p.ServoErr
	}
	p.record(Op{
		Kind:       "servo_config",
		Pin:        id.String(),
		MinPulseUS: minPulseUS,
		MaxPulseUS: maxPulseUS,
		AngleDeg:   angleDeg,
	})
	p.setValue(id.String(), angleDeg)
	return nil
}

// ReadPin implements board.ProtocolClient. It returns the last value
// written to the pin (0 if never written).
func (p *Protocol) ReadPin(addr board.PinAddress) (int, error) {
	defer p.enterOp()()
	if p.ReadErr != nil {
		return 0, p.ReadErr
	}
	v := p.value(addr.ID.String())
	p.record(Op{Kind: "read", Pin: addr.ID.String(), Mode: addr.Mode.String(), Value: v})
	return v, nil
}

// WritePin implements board.ProtocolClient.
func (p *Protocol) WritePin(addr board.PinAddress, value int) error {
	defer p.enterOp()()
	if p.WriteErr != nil {
		return p.WriteErr
	}
	p.record(Op{Kind: "write", Pin: addr.ID.String(), Mode: addr.Mode.String(), Value: value})
	p.setValue(addr.ID.String(), value)
	return nil
}

// Close implements board.ProtocolClient.
func (p *Protocol) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	p.record(Op{Kind: "close"})
	return nil
}

// enterOp tracks overlapping operations. The returned func must be
// deferred by the caller.
func (p *Protocol) enterOp() func() {
	if p.inFlight.Add(1) > 1 {
		p.interleaved.Store(true)
	}
	if p.OpDelay > 0 {
		time.Sleep(p.OpDelay)
	}
	return func() { p.inFlight.Add(-1) }
}

func (p *Protocol) record(op Op) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ops = append(p.ops, op)
}

func (p *Protocol) value(pin string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.values[pin]
}

func (p *Protocol) setValue(pin string, v int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[pin] = v
}

// Ops returns a copy of all recorded operations in order.
func (p *Protocol) Ops() []Op {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Op, len(p.ops))
	copy(out, p.ops)
	return out
}

// CountOps returns the number of recorded operations of the given kind.
func (p *Protocol) CountOps(kind string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, op := range p.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// PinOps returns the operations recorded for one pin, in order.
func (p *Protocol) PinOps(pin string) []Op {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Op
	for _, op := range p.ops {
		if op.Pin == pin {
			out = append(out, op)
		}
	}
	return out
}

// Value returns the current scripted value of a pin.
func (p *Protocol) Value(pin string) int {
	return p.value(pin)
}

// SetValue seeds a pin's value, simulating external pin state.
func (p *Protocol) SetValue(pin string, v int) {
	p.setValue(pin, v)
}

// Interleaved reports whether two operations ever overlapped, i.e. the
// access serializer above the mock failed to serialize wire access.
func (p *Protocol) Interleaved() bool {
	return p.interleaved.Load()
}

// Closed reports whether Close was called.
func (p *Protocol) Closed() bool {
	return p.closed.Load()
}

// Transport is an in-memory no-op transport standing in for a serial
// port.
type Transport struct {
	closed atomic.Bool
}

// Dial returns a fresh in-memory transport; use as board.Config.Dial.
func Dial() (io.ReadWriteCloser, error) {
	return &Transport{}, nil
}

// Read implements io.Reader; it blocks nothing and returns no data.
func (t *Transport) Read(p []byte) (int, error) {
	if t.closed.Load() {
		return 0, io.EOF
	}
	return 0, nil
}

// Write implements io.Writer.
func (t *Transport) Write(p []byte) (int, error) {
	if t.closed.Load() {
		return 0, fmt.Errorf("transport closed")
	}
	return len(p), nil
}

// Close implements io.Closer. Safe to call multiple times.
func (t *Transport) Close() error {
	t.closed.Store(true)
	return nil
}

// BoardConfig returns a board configuration wired to this mock protocol
// and an in-memory transport.
func BoardConfig(p *Protocol) board.Config {
	return board.Config{
		Dial:     Dial,
		Protocol: p.Factory(),
		PortName: "mock",
	}
}
