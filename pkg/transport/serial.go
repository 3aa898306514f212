package transport

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"
)

// Transport errors.
var (
	ErrNoPort        = errors.New("no serial port specified")
	ErrInvalidConfig = errors.New("invalid serial configuration")
)

// Parity is the serial parity setting.
type Parity string

const (
	// ParityNone disables the parity bit.
	ParityNone Parity = "none"
	// ParityEven uses even parity.
	ParityEven Parity = "even"
	// ParityOdd uses odd parity.
	ParityOdd Parity = "odd"
)

// DefaultBaudRate is the conventional rate for Firmata-class firmware.
const DefaultBaudRate = 57600

// Config configures the serial link to the board.
type Config struct {
	// Port is the serial port name (e.g. "/dev/ttyACM0", "COM3").
	Port string

	// BaudRate is the line speed (default: DefaultBaudRate).
	BaudRate int

	// DataBits per character (default: 8).
	DataBits int

	// Parity setting (default: ParityNone).
	Parity Parity

	// StopBits is 1 or 2 (default: 1).
	StopBits int

	// ReadTimeout bounds a single Read (0 = block indefinitely).
	ReadTimeout time.Duration
}

// DefaultConfig returns the 57600 8N1 configuration for the given port.
func DefaultConfig(port string) Config {
	return Config{
		Port:     port,
		BaudRate: DefaultBaudRate,
		DataBits: 8,
		Parity:   ParityNone,
		StopBits: 1,
	}
}

// normalize fills zero fields with defaults and validates the rest.
func (c Config) normalize() (Config, error) {
	if c.Port == "" {
		return c, ErrNoPort
	}
	if c.BaudRate == 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.BaudRate < 0 {
		return c, fmt.Errorf("%w: baud rate %d", ErrInvalidConfig, c.BaudRate)
	}
	if c.DataBits == 0 {
		c.DataBits = 8
	}
	if c.Parity == "" {
		c.Parity = ParityNone
	}
	if c.StopBits == 0 {
		c.StopBits = 1
	}
	return c, nil
}

// mode maps the configuration to the serial library's line mode.
func (c Config) mode() (*serial.Mode, error) {
	mode := &serial.Mode{
		BaudRate: c.BaudRate,
		DataBits: c.DataBits,
	}

	switch c.Parity {
	case ParityNone:
		mode.Parity = serial.NoParity
	case ParityEven:
		mode.Parity = serial.EvenParity
	case ParityOdd:
		mode.Parity = serial.OddParity
	default:
		return nil, fmt.Errorf("%w: parity %q", ErrInvalidConfig, c.Parity)
	}

	switch c.StopBits {
	case 1:
		mode.StopBits = serial.OneStopBit
	case 2:
		mode.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("%w: stop bits %d", ErrInvalidConfig, c.StopBits)
	}

	return mode, nil
}

// Conn is an open serial link. It implements io.ReadWriteCloser; Close is
// idempotent.
type Conn struct {
	port      serial.Port
	name      string
	closeOnce sync.Once
	closeErr  error
}

// Open opens the serial port described by cfg.
func Open(cfg Config) (*Conn, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	mode, err := cfg.mode()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(cfg.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Port, err)
	}

	if cfg.ReadTimeout > 0 {
		if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
			port.Close()
			return nil, fmt.Errorf("set read timeout on %s: %w", cfg.Port, err)
		}
	}

	return &Conn{port: port, name: cfg.Port}, nil
}

// Dialer returns a dial function for the board layer.
func Dialer(cfg Config) func() (io.ReadWriteCloser, error) {
	return func() (io.ReadWriteCloser, error) {
		return Open(cfg)
	}
}

// Name returns the port name the connection was opened with.
func (c *Conn) Name() string {
	return c.name
}

// Read reads from the serial port.
func (c *Conn) Read(p []byte) (int, error) {
	return c.port.Read(p)
}

// Write writes to the serial port.
func (c *Conn) Write(p []byte) (int, error) {
	return c.port.Write(p)
}

// Close closes the serial port. Safe to call multiple times.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.port.Close()
	})
	return c.closeErr
}

// Compile-time interface satisfaction check.
var _ io.ReadWriteCloser = (*Conn)(nil)
