// Package config loads board profiles from YAML. A profile names the
// serial port, its settings, and the devices attached to the board, so
// tools can bring up a full pin layout from one file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/firmatazero/firmatazero-go/pkg/board"
	"github.com/firmatazero/firmatazero-go/pkg/transport"
)

// Sentinel errors returned by profile validation.
var (
	ErrInvalidProfile = errors.New("invalid profile")
	ErrUnknownKind    = errors.New("unknown device kind")
)

// Device kinds accepted in a profile.
const (
	KindLED           = "led"
	KindDigitalOutput = "digital_output"
	KindServo         = "servo"
)

// DeviceSpec describes one device attached to the board.
type DeviceSpec struct {
	// Name identifies the device within the profile. Required, unique.
	Name string `yaml:"name"`

	// Kind is one of "led", "digital_output", "servo".
	Kind string `yaml:"kind"`

	// Pin is the pin number or symbolic name.
	Pin any `yaml:"pin"`

	// ActiveLow inverts the wire level (digital_output only).
	ActiveLow bool `yaml:"active_low,omitempty"`

	// InitialOn drives the device on at startup (led, digital_output).
	InitialOn bool `yaml:"initial_on,omitempty"`

	// Servo pulse widths in microseconds; zero uses the defaults.
	MinPulseUS int `yaml:"min_pulse_us,omitempty"`
	MaxPulseUS int `yaml:"max_pulse_us,omitempty"`
}

// PinID returns the device's pin identifier.
func (d DeviceSpec) PinID() (board.PinID, error) {
	return board.PinIDFrom(d.Pin)
}

// SerialSpec holds the serial-port settings of a profile.
type SerialSpec struct {
	// Port is the serial device path, e.g. /dev/ttyACM0 or COM3.
	Port string `yaml:"port"`

	// Baud is the line speed (default: 57600).
	Baud int `yaml:"baud,omitempty"`

	// ReadTimeoutMS bounds blocking reads, in milliseconds.
	ReadTimeoutMS int `yaml:"read_timeout_ms,omitempty"`
}

// Profile is a complete board description loaded from YAML.
type Profile struct {
	Serial  SerialSpec   `yaml:"serial"`
	Devices []DeviceSpec `yaml:"devices,omitempty"`
}

// Load reads and parses a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses and validates a YAML profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the profile for missing or conflicting entries.
func (p *Profile) Validate() error {
	if p.Serial.Port == "" {
		return fmt.Errorf("%w: serial port is required", ErrInvalidProfile)
	}
	if p.Serial.Baud < 0 {
		return fmt.Errorf("%w: negative baud rate %d", ErrInvalidProfile, p.Serial.Baud)
	}

	names := make(map[string]bool, len(p.Devices))
	for i, d := range p.Devices {
		if d.Name == "" {
			return fmt.Errorf("%w: device %d has no name", ErrInvalidProfile, i)
		}
		if names[d.Name] {
			return fmt.Errorf("%w: duplicate device name %q", ErrInvalidProfile, d.Name)
		}
		names[d.Name] = true

		switch d.Kind {
		case KindLED, KindDigitalOutput, KindServo:
		default:
			return fmt.Errorf("%w: device %q kind %q", ErrUnknownKind, d.Name, d.Kind)
		}

		if _, err := d.PinID(); err != nil {
			return fmt.Errorf("device %q: %w", d.Name, err)
		}
		if d.MinPulseUS < 0 || d.MaxPulseUS < 0 {
			return fmt.Errorf("%w: device %q has negative pulse width", ErrInvalidProfile, d.Name)
		}
		if d.Kind != KindServo && (d.MinPulseUS != 0 || d.MaxPulseUS != 0) {
			return fmt.Errorf("%w: device %q sets pulse widths but is not a servo",
				ErrInvalidProfile, d.Name)
		}
	}
	return nil
}

// Device returns the named device spec, or false if absent.
func (p *Profile) Device(name string) (DeviceSpec, bool) {
	for _, d := range p.Devices {
		if d.Name == name {
			return d, true
		}
	}
	return DeviceSpec{}, false
}

// SerialConfig maps the profile's serial settings onto a transport
// configuration. Unset fields keep the transport defaults.
func (p *Profile) SerialConfig() transport.Config {
	cfg := transport.DefaultConfig(p.Serial.Port)
	if p.Serial.Baud > 0 {
		cfg.BaudRate = p.Serial.Baud
	}
	if p.Serial.ReadTimeoutMS > 0 {
		cfg.ReadTimeout = time.Duration(p.Serial.ReadTimeoutMS) * time.Millisecond
	}
	return cfg
}
