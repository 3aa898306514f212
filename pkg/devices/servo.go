package devices

import (
	"fmt"
	"math"
	"time"

	"github.com/firmatazero/firmatazero-go/pkg/board"
)

// Default servo pulse widths, matching common hobby-servo hardware.
const (
	// DefaultMinPulseWidth is the pulse width at the minimum position.
	DefaultMinPulseWidth = 544 * time.Microsecond

	// DefaultMaxPulseWidth is the pulse width at the maximum position.
	DefaultMaxPulseWidth = 2400 * time.Microsecond
)

// ServoConfig configures a Servo.
type ServoConfig struct {
	// InitialValue is the starting position in [-1, 1]
	// (default: 0, the mid-point).
	InitialValue float64

	// MinPulseWidth is the pulse width at position -1
	// (default: DefaultMinPulseWidth).
	MinPulseWidth time.Duration

	// MaxPulseWidth is the pulse width at position +1
	// (default: DefaultMaxPulseWidth).
	MaxPulseWidth time.Duration
}

// Servo represents a PWM-controlled servo motor. Positions are
// normalized to [-1, 1], linearly mapped onto the board's 0-180 degree
// angle range. The pulse-width range and initial angle are sent to the
// board once, at construction.
type Servo struct {
	pin *board.Pin
}

// NewServo creates a servo with default pulse widths, starting at the
// mid-point. A nil registry uses board.Default().
func NewServo(reg *board.Registry, pin board.PinID) (*Servo, error) {
	return NewServoWithConfig(reg, pin, ServoConfig{})
}

// NewServoWithConfig creates a servo with custom configuration. Invalid
// pulse bounds fail with board.ErrServoConfig; an initial position
// outside [-1, 1] fails with ErrValueOutOfRange.
func NewServoWithConfig(reg *board.Registry, pin board.PinID, cfg ServoConfig) (*Servo, error) {
	if err := checkServoValue(cfg.InitialValue); err != nil {
		return nil, err
	}
	if cfg.MinPulseWidth == 0 {
		cfg.MinPulseWidth = DefaultMinPulseWidth
	}
	if cfg.MaxPulseWidth == 0 {
		cfg.MaxPulseWidth = DefaultMaxPulseWidth
	}

	if reg == nil {
		reg = board.Default()
	}
	conn, err := reg.Acquire()
	if err != nil {
		return nil, err
	}

	handle, err := conn.Pin(board.PinAddress{Kind: board.KindDigital, ID: pin, Mode: board.ModeServo})
	if err != nil {
		return nil, err
	}

	err = conn.ServoConfig(pin, board.ServoSettings{
		MinPulse:     cfg.MinPulseWidth,
		MaxPulse:     cfg.MaxPulseWidth,
		InitialAngle: toDegrees(cfg.InitialValue),
	})
	if err != nil {
		return nil, err
	}

	return &Servo{pin: handle}, nil
}

// Value reports the servo's current position in [-1, 1], re-read from
// the board and mapped back from degrees.
func (s *Servo) Value() (float64, error) {
	deg, err := s.pin.Read()
	if err != nil {
		return 0, err
	}
	return toValue(deg), nil
}

// SetValue moves the servo to a position in [-1, 1]. Out-of-range values
// fail with ErrValueOutOfRange.
func (s *Servo) SetValue(value float64) error {
	if err := checkServoValue(value); err != nil {
		return err
	}
	return s.pin.Write(toDegrees(value))
}

// Min moves the servo to its minimum position.
func (s *Servo) Min() error {
	return s.SetValue(-1)
}

// Mid moves the servo to its mid-point position.
func (s *Servo) Mid() error {
	return s.SetValue(0)
}

// Max moves the servo to its maximum position.
func (s *Servo) Max() error {
	return s.SetValue(1)
}

// Pin returns the servo's pin address.
func (s *Servo) Pin() board.PinAddress {
	return s.pin.Address()
}

func checkServoValue(v float64) error {
	if math.IsNaN(v) || v < -1 || v > 1 {
		return fmt.Errorf("%w: servo position %v not in [-1, 1]", ErrValueOutOfRange, v)
	}
	return nil
}

// mapRange remaps x from one linear range to another, as Arduino's
// map() does.
func mapRange(x, inMin, inMax, outMin, outMax float64) float64 {
	return (x-inMin)*(outMax-outMin)/(inMax-inMin) + outMin
}

// toDegrees maps a normalized [-1, 1] position to [0, 180] degrees.
func toDegrees(v float64) int {
	return int(math.Round(mapRange(v, -1, 1, 0, 180)))
}

// toValue maps [0, 180] degrees back to a normalized [-1, 1] position.
func toValue(deg int) float64 {
	return mapRange(float64(deg), 0, 180, -1, 1)
}
