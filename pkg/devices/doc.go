// Package devices provides logical output-device facades over shared
// board pins.
//
// Each facade wraps exactly one pin capability handle and translates a
// logical value (a boolean for digital outputs, a normalized [-1, 1]
// position for servos) into pin operations. Facades never cache pin
// state: every read re-queries the board, and every operation goes
// through the connection's access serializer.
//
// # Atomicity
//
// Serialization is per pin operation, not per device action. A compound
// action such as Toggle performs a serialized read followed by a
// serialized write; another goroutine's operation may interleave between
// the two. Callers needing a larger atomic unit must coordinate
// externally.
//
// # Construction
//
// Facades borrow the shared connection from a board.Registry:
//
//	reg := board.NewRegistry(board.Config{
//	    Dial:     transport.Dialer(transport.DefaultConfig("/dev/ttyACM0")),
//	    Protocol: firmataFactory,
//	})
//	led, err := devices.NewLED(reg, board.NumericPin(devices.DefaultLEDPin))
//	if err != nil {
//	    return err
//	}
//	led.On()
//
// Passing a nil registry falls back to board.Default().
package devices
