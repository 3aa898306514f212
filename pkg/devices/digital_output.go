package devices

import (
	"errors"
	"fmt"
	"sync"

	"github.com/firmatazero/firmatazero-go/pkg/board"
)

// Device errors.
var (
	// ErrValueOutOfRange indicates a facade value outside its declared
	// domain.
	ErrValueOutOfRange = errors.New("value out of range")
)

// Conventional pin assignments on Arduino-class boards.
const (
	// DefaultLEDPin is the built-in LED pin.
	DefaultLEDPin = 13

	// DefaultServoPin is the conventional servo header pin.
	DefaultServoPin = 9
)

// InitialValue selects the state a digital output is put in at
// construction time.
type InitialValue uint8

const (
	// InitialOff switches the device off at construction (the default).
	InitialOff InitialValue = iota

	// InitialOn switches the device on at construction.
	InitialOn

	// InitialAsFound leaves the pin in whatever state it is found in
	// when configured for output. Warning: this can be on.
	InitialAsFound
)

// DigitalOutputConfig configures a DigitalOutputDevice.
type DigitalOutputConfig struct {
	// ActiveLow inverts the drive convention: when set, switching the
	// device on drives the pin low. The zero value is the usual
	// active-high convention.
	ActiveLow bool

	// Initial selects the state applied at construction
	// (default: InitialOff).
	Initial InitialValue
}

// DigitalOutputDevice represents a generic boolean output device (a
// relay, a buzzer, anything driven by one pin).
//
// The device holds no local pin state; Value always re-queries the
// board. It is safe for concurrent use, with per-operation atomicity as
// described in the package documentation.
type DigitalOutputDevice struct {
	pin *board.Pin

	// mu guards activeHigh, which is mutable after construction.
	mu         sync.RWMutex
	activeHigh bool
}

// NewDigitalOutputDevice creates an active-high output device on the
// given pin, switched off initially. A nil registry uses board.Default().
func NewDigitalOutputDevice(reg *board.Registry, pin board.PinID) (*DigitalOutputDevice, error) {
	return NewDigitalOutputDeviceWithConfig(reg, pin, DigitalOutputConfig{})
}

// NewDigitalOutputDeviceWithConfig creates an output device with custom
// configuration. The shared connection is established on first use; any
// connection or pin-resolution failure is returned and no device is
// handed out.
func NewDigitalOutputDeviceWithConfig(reg *board.Registry, pin board.PinID, cfg DigitalOutputConfig) (*DigitalOutputDevice, error) {
	handle, err := acquireOutputPin(reg, pin)
	if err != nil {
		return nil, err
	}

	d := &DigitalOutputDevice{
		pin:        handle,
		activeHigh: !cfg.ActiveLow,
	}

	switch cfg.Initial {
	case InitialOff:
		if err := d.SetValue(false); err != nil {
			return nil, err
		}
	case InitialOn:
		if err := d.SetValue(true); err != nil {
			return nil, err
		}
	case InitialAsFound:
		// Leave the pin exactly as configured.
	default:
		return nil, fmt.Errorf("%w: initial value %d", ErrValueOutOfRange, cfg.Initial)
	}

	return d, nil
}

// acquireOutputPin borrows the shared connection and resolves a digital
// output pin handle.
func acquireOutputPin(reg *board.Registry, pin board.PinID) (*board.Pin, error) {
	if reg == nil {
		reg = board.Default()
	}
	conn, err := reg.Acquire()
	if err != nil {
		return nil, err
	}
	return conn.Pin(board.PinAddress{Kind: board.KindDigital, ID: pin, Mode: board.ModeOutput})
}

// Value reports whether the device is logically on. The pin level is
// re-read from the board and translated through the active-high
// convention.
func (d *DigitalOutputDevice) Value() (bool, error) {
	level, err := d.pin.ReadBool()
	if err != nil {
		return false, err
	}
	return level == d.ActiveHigh(), nil
}

// SetValue switches the device on or off, translating the logical value
// to a pin level through the active-high convention.
func (d *DigitalOutputDevice) SetValue(value bool) error {
	return d.pin.WriteBool(value == d.ActiveHigh())
}

// On switches the device on.
func (d *DigitalOutputDevice) On() error {
	return d.SetValue(true)
}

// Off switches the device off.
func (d *DigitalOutputDevice) Off() error {
	return d.SetValue(false)
}

// Toggle reverses the state of the device. The read and the write are
// serialized individually; see the package documentation.
func (d *DigitalOutputDevice) Toggle() error {
	value, err := d.Value()
	if err != nil {
		return err
	}
	return d.SetValue(!value)
}

// IsActive reports whether the device is currently on. Alias for Value.
func (d *DigitalOutputDevice) IsActive() (bool, error) {
	return d.Value()
}

// ActiveHigh reports the drive convention.
func (d *DigitalOutputDevice) ActiveHigh() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.activeHigh
}

// SetActiveHigh changes the drive convention. This does not touch the
// pin; it only changes how the pin level is interpreted from now on,
// so changing it effectively inverts Value.
func (d *DigitalOutputDevice) SetActiveHigh(activeHigh bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.activeHigh = activeHigh
}

// Pin returns the device's pin address.
func (d *DigitalOutputDevice) Pin() board.PinAddress {
	return d.pin.Address()
}
