package board

import (
	"context"
	"io"
)

// ProtocolClient is the board capability boundary: the firmware protocol
// layer that encodes pin operations into wire traffic. It is implemented
// outside this package; the connection core never touches bytes itself.
//
// Implementations are not required to be safe for concurrent use. The
// connection guarantees that at most one method is in flight at a time:
// every call happens inside the connection's exclusion domain, matching
// the single-initiator nature of request/response firmware protocols.
type ProtocolClient interface {
	// Handshake performs the protocol's post-open handshake (firmware
	// version exchange, capability report). Called once, before any pin
	// operation.
	Handshake(ctx context.Context) error

	// ConfigurePin sends the mode-configure command for a pin. Called
	// exactly once per pin per connection lifetime.
	ConfigurePin(addr PinAddress) error

	// ServoConfig establishes a servo pin's pulse-width range (in
	// microseconds) and initial angle (in degrees).
	ServoConfig(id PinID, minPulseUS, maxPulseUS, angleDeg int) error

	// ReadPin queries the board for a pin's current value.
	ReadPin(addr PinAddress) (int, error)

	// WritePin sets a pin's value. For output pins the value is a level
	// (0/1); for servo pins it is an angle in degrees.
	WritePin(addr PinAddress, value int) error

	// Close releases protocol-level resources. The connection closes the
	// underlying transport separately.
	Close() error
}

// ProtocolFactory binds a freshly opened transport to a protocol client.
// The factory must not start the handshake; the connection drives it.
type ProtocolFactory func(rw io.ReadWriteCloser) (ProtocolClient, error)
