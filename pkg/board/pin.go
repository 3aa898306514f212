package board

import (
	"fmt"
	"strconv"
	"strings"
)

// PinKind identifies the addressing class of a pin.
type PinKind uint8

const (
	// KindDigital addresses a pin by its digital GPIO index.
	KindDigital PinKind = iota

	// KindAnalog addresses a pin by its analog channel.
	KindAnalog
)

// String returns the pin kind name as used in capability strings.
func (k PinKind) String() string {
	switch k {
	case KindDigital:
		return "digital"
	case KindAnalog:
		return "analog"
	default:
		return "unknown"
	}
}

// PinMode identifies the configured mode of a pin.
type PinMode uint8

const (
	// ModeOutput configures a pin as a boolean digital output.
	ModeOutput PinMode = iota

	// ModeServo configures a pin as a PWM-driven servo output (angle mode).
	ModeServo
)

// String returns the mode name as used in capability strings.
func (m PinMode) String() string {
	switch m {
	case ModeOutput:
		return "output"
	case ModeServo:
		return "servo"
	default:
		return "unknown"
	}
}

// PinID identifies one physical pin. It is a tagged variant: either a
// numeric GPIO index or a symbolic identifier (e.g. an analog-channel
// alias like "a1"), both passed through to the protocol layer verbatim.
type PinID struct {
	num      int
	sym      string
	symbolic bool
}

// NumericPin returns a PinID for a numeric GPIO index.
func NumericPin(n int) PinID {
	return PinID{num: n}
}

// SymbolicPin returns a PinID for a symbolic pin identifier.
func SymbolicPin(s string) PinID {
	return PinID{sym: s, symbolic: true}
}

// PinIDFrom converts a dynamically-typed pin identifier (as found in
// configuration files) to a PinID. Integers map to numeric pins, strings
// to symbolic pins; anything else fails with ErrInvalidPinSpec.
func PinIDFrom(v any) (PinID, error) {
	switch p := v.(type) {
	case PinID:
		return p, p.validate()
	case int:
		id := NumericPin(p)
		return id, id.validate()
	case int8:
		return PinIDFrom(int(p))
	case int16:
		return PinIDFrom(int(p))
	case int32:
		return PinIDFrom(int(p))
	case int64:
		return PinIDFrom(int(p))
	case uint8:
		return PinIDFrom(int(p))
	case uint16:
		return PinIDFrom(int(p))
	case uint32:
		return PinIDFrom(int(p))
	case string:
		id := SymbolicPin(p)
		return id, id.validate()
	default:
		return PinID{}, fmt.Errorf("%w: pin identifier must be int or string, got %T", ErrInvalidPinSpec, v)
	}
}

// IsSymbolic reports whether the pin is addressed symbolically.
func (id PinID) IsSymbolic() bool {
	return id.symbolic
}

// Index returns the numeric GPIO index and true for numeric pins,
// or 0 and false for symbolic pins.
func (id PinID) Index() (int, bool) {
	if id.symbolic {
		return 0, false
	}
	return id.num, true
}

// String renders the identifier as it appears in a capability string.
func (id PinID) String() string {
	if id.symbolic {
		return id.sym
	}
	return strconv.Itoa(id.num)
}

func (id PinID) validate() error {
	if id.symbolic {
		if id.sym == "" {
			return fmt.Errorf("%w: empty symbolic pin identifier", ErrInvalidPinSpec)
		}
		if strings.ContainsAny(id.sym, ": \t") {
			return fmt.Errorf("%w: symbolic pin identifier %q contains reserved characters", ErrInvalidPinSpec, id.sym)
		}
		return nil
	}
	if id.num < 0 {
		return fmt.Errorf("%w: negative pin number %d", ErrInvalidPinSpec, id.num)
	}
	return nil
}

// PinAddress is the structured form of a pin capability string:
// kind, pin identifier and configured mode.
type PinAddress struct {
	Kind PinKind
	ID   PinID
	Mode PinMode
}

// String renders the address in capability form, e.g. "digital:13:output".
func (a PinAddress) String() string {
	return a.Kind.String() + ":" + a.ID.String() + ":" + a.Mode.String()
}

// ParsePinSpec parses a capability string of the form "kind:number:mode",
// e.g. "digital:7:output" or "digital:9:servo". The pin segment may be a
// non-negative integer or a symbolic identifier. Malformed strings and
// unsupported kinds or modes fail with ErrInvalidPinSpec.
func ParsePinSpec(spec string) (PinAddress, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return PinAddress{}, fmt.Errorf("%w: %q is not of the form kind:number:mode", ErrInvalidPinSpec, spec)
	}

	var addr PinAddress

	switch parts[0] {
	case "digital":
		addr.Kind = KindDigital
	case "analog":
		addr.Kind = KindAnalog
	default:
		return PinAddress{}, fmt.Errorf("%w: unsupported pin kind %q", ErrInvalidPinSpec, parts[0])
	}

	if n, err := strconv.Atoi(parts[1]); err == nil {
		addr.ID = NumericPin(n)
	} else {
		addr.ID = SymbolicPin(parts[1])
	}
	if err := addr.ID.validate(); err != nil {
		return PinAddress{}, err
	}

	switch parts[2] {
	case "output", "o":
		addr.Mode = ModeOutput
	case "servo", "s":
		addr.Mode = ModeServo
	default:
		return PinAddress{}, fmt.Errorf("%w: unsupported pin mode %q", ErrInvalidPinSpec, parts[2])
	}

	return addr, nil
}

// pinKey identifies a physical pin irrespective of mode. Mode is excluded
// so that re-requesting a configured pin with a different mode is detected
// as a conflict rather than silently creating a second handle.
type pinKey struct {
	kind PinKind
	id   PinID
}

// Pin is a capability handle for one mode-configured pin. Handles are
// created by Connection.GetPin, cached for the connection's lifetime and
// safe for concurrent use, though by convention each device facade owns
// one handle exclusively.
type Pin struct {
	conn *Connection
	addr PinAddress
}

// Address returns the pin's structured address.
func (p *Pin) Address() PinAddress {
	return p.addr
}

// Read queries the board for the pin's current value while holding the
// connection's exclusion domain. It never returns a cached value.
func (p *Pin) Read() (int, error) {
	var value int
	err := p.conn.exclusive(func(pc ProtocolClient) error {
		var opErr error
		value, opErr = pc.ReadPin(p.addr)
		return opErr
	})
	if err != nil {
		p.conn.logError(err, "pin read", p.addr.ID)
		return 0, wireError("read pin "+p.addr.ID.String(), err)
	}
	p.conn.logPinOp(p.addr, logOpRead, &value)
	return value, nil
}

// Write sets the pin's value while holding the connection's exclusion
// domain.
func (p *Pin) Write(value int) error {
	err := p.conn.exclusive(func(pc ProtocolClient) error {
		return pc.WritePin(p.addr, value)
	})
	if err != nil {
		p.conn.logError(err, "pin write", p.addr.ID)
		return wireError("write pin "+p.addr.ID.String(), err)
	}
	p.conn.logPinOp(p.addr, logOpWrite, &value)
	return nil
}

// ReadBool reads the pin as a boolean level.
func (p *Pin) ReadBool() (bool, error) {
	v, err := p.Read()
	return v != 0, err
}

// WriteBool writes a boolean level to the pin.
func (p *Pin) WriteBool(v bool) error {
	if v {
		return p.Write(1)
	}
	return p.Write(0)
}
