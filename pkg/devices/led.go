package devices

import (
	"github.com/firmatazero/firmatazero-go/pkg/board"
)

// LEDConfig configures an LED.
type LEDConfig struct {
	// Initial selects the state applied at construction. The default
	// (InitialOff) leaves the pin untouched; InitialOn lights the LED.
	Initial InitialValue
}

// LED represents a light emitting diode on a digital output pin. It is
// always active-high: On drives the pin high.
type LED struct {
	pin *board.Pin
}

// NewLED creates an LED on the given pin, initially unlit. A nil
// registry uses board.Default().
func NewLED(reg *board.Registry, pin board.PinID) (*LED, error) {
	return NewLEDWithConfig(reg, pin, LEDConfig{})
}

// NewLEDWithConfig creates an LED with custom configuration.
func NewLEDWithConfig(reg *board.Registry, pin board.PinID, cfg LEDConfig) (*LED, error) {
	handle, err := acquireOutputPin(reg, pin)
	if err != nil {
		return nil, err
	}

	l := &LED{pin: handle}

	// Only an explicit initial-on writes at construction; off and
	// as-found leave the pin alone.
	if cfg.Initial == InitialOn {
		if err := l.On(); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Value reports whether the LED pin is high. The level is re-read from
// the board on every call.
func (l *LED) Value() (bool, error) {
	return l.pin.ReadBool()
}

// SetValue lights or clears the LED.
func (l *LED) SetValue(value bool) error {
	return l.pin.WriteBool(value)
}

// On lights the LED.
func (l *LED) On() error {
	return l.SetValue(true)
}

// Off clears the LED.
func (l *LED) Off() error {
	return l.SetValue(false)
}

// Toggle reverses the LED state. The read and write are serialized
// individually; see the package documentation.
func (l *LED) Toggle() error {
	value, err := l.Value()
	if err != nil {
		return err
	}
	return l.SetValue(!value)
}

// IsLit reports whether the LED is currently on. Alias for Value.
func (l *LED) IsLit() (bool, error) {
	return l.Value()
}

// Pin returns the LED's pin address.
func (l *LED) Pin() board.PinAddress {
	return l.pin.Address()
}
