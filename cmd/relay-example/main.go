// Command relay-example drives an active-low relay on pin 7.
//
// Relay modules commonly energize when the control pin is driven low,
// so the device is created active-low: On() pulls the pin low, Off()
// releases it high. The example energizes the relay for one second,
// then releases it.
//
// Usage:
//
//	go run ./cmd/relay-example [-port /dev/ttyACM0] [-simulate]
package main

import (
	"flag"
	"log"
	"time"

	"github.com/firmatazero/firmatazero-go/internal/mock"
	"github.com/firmatazero/firmatazero-go/pkg/board"
	"github.com/firmatazero/firmatazero-go/pkg/devices"
	"github.com/firmatazero/firmatazero-go/pkg/transport"
)

func main() {
	port := flag.String("port", "", "Serial port, e.g. /dev/ttyACM0 or COM3")
	simulate := flag.Bool("simulate", false, "Run against the in-memory protocol simulator")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	reg, err := newRegistry(*port, *simulate)
	if err != nil {
		log.Fatal(err)
	}
	defer reg.Close()

	relay, err := devices.NewDigitalOutputDeviceWithConfig(reg, board.NumericPin(7),
		devices.DigitalOutputConfig{
			ActiveLow: true,
			Initial:   devices.InitialOn,
		})
	if err != nil {
		log.Fatalf("Failed to create relay: %v", err)
	}

	log.Println("Relay energized")
	if err := relay.On(); err != nil {
		log.Fatalf("Failed to switch relay on: %v", err)
	}
	time.Sleep(1 * time.Second)

	log.Println("Relay released")
	if err := relay.Off(); err != nil {
		log.Fatalf("Failed to switch relay off: %v", err)
	}
	time.Sleep(1 * time.Second)
}

func newRegistry(port string, simulate bool) (*board.Registry, error) {
	if simulate || port == "" {
		if !simulate {
			log.Println("No -port given, running simulated")
		}
		return board.NewRegistry(mock.BoardConfig(mock.NewProtocol())), nil
	}
	return board.NewRegistry(board.Config{
		Dial:     transport.Dialer(transport.DefaultConfig(port)),
		Protocol: mock.NewProtocol().Factory(),
		PortName: port,
	}), nil
}
