package log

import (
	"time"
)

// Event represents a board log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the board connection (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"3,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"4,keyasint"`

	// Pin is the pin identifier the event relates to, if any.
	Pin string `cbor:"5,keyasint,omitempty"`

	// Port is the transport endpoint (serial port name).
	Port string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	PinOp       *PinOpEvent       `cbor:"7,keyasint,omitempty"`  // Protocol layer
	StateChange *StateChangeEvent `cbor:"8,keyasint,omitempty"`  // Connection state
	ServoConfig *ServoConfigEvent `cbor:"9,keyasint,omitempty"`  // Servo setup
	Error       *ErrorEventData   `cbor:"10,keyasint,omitempty"` // Errors at any layer
}

// Layer indicates which layer captured the event.
type Layer uint8

const (
	// LayerTransport is the serial link layer (port open/close).
	LayerTransport Layer = 0
	// LayerProtocol is the firmware command layer (pin operations).
	LayerProtocol Layer = 1
	// LayerDevice is the device facade layer.
	LayerDevice Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerProtocol:
		return "PROTOCOL"
	case LayerDevice:
		return "DEVICE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryPinOp indicates a pin configure/read/write operation.
	CategoryPinOp Category = 0
	// CategoryState indicates a connection state change.
	CategoryState Category = 1
	// CategoryConfig indicates a one-shot configuration command.
	CategoryConfig Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryPinOp:
		return "PINOP"
	case CategoryState:
		return "STATE"
	case CategoryConfig:
		return "CONFIG"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// PinOp identifies the primitive pin operation.
type PinOp uint8

const (
	// PinOpConfigure indicates a pin mode-configure command.
	PinOpConfigure PinOp = 0
	// PinOpRead indicates a pin read.
	PinOpRead PinOp = 1
	// PinOpWrite indicates a pin write.
	PinOpWrite PinOp = 2
)

// String returns the pin operation name.
func (o PinOp) String() string {
	switch o {
	case PinOpConfigure:
		return "CONFIGURE"
	case PinOpRead:
		return "READ"
	case PinOpWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// PinOpEvent captures a single serialized pin operation at the protocol layer.
type PinOpEvent struct {
	// Op is the primitive operation performed.
	Op PinOp `cbor:"1,keyasint"`

	// Mode is the configured pin mode (e.g. "output", "servo").
	Mode string `cbor:"2,keyasint,omitempty"`

	// Value is the value written or read (nil for configure).
	Value *int `cbor:"3,keyasint,omitempty"`
}

// StateChangeEvent captures connection lifecycle events.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// ServoConfigEvent captures the one-shot servo configuration command.
type ServoConfigEvent struct {
	// MinPulseUS is the minimum pulse width in microseconds.
	MinPulseUS int `cbor:"1,keyasint"`

	// MaxPulseUS is the maximum pulse width in microseconds.
	MaxPulseUS int `cbor:"2,keyasint"`

	// AngleDeg is the initial angle in degrees.
	AngleDeg int `cbor:"3,keyasint"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
