// Package transport provides the serial-port transport to the board.
//
// The transport layer handles:
//   - Opening the serial port with the configured line parameters
//   - Optional read timeouts
//   - Idempotent teardown
//
// It deliberately does nothing else: framing and command encoding belong
// to the firmware protocol layer consumed through board.ProtocolClient,
// and port discovery/enumeration is out of scope.
//
// # Defaults
//
// The default line configuration is 57600 8N1, the conventional rate for
// Firmata-class firmware:
//
//	conn, err := transport.Open(transport.DefaultConfig("/dev/ttyACM0"))
//
// Use Dialer to plug a configuration into the board layer:
//
//	reg := board.NewRegistry(board.Config{
//	    Dial:     transport.Dialer(cfg),
//	    Protocol: protocolFactory,
//	})
package transport
