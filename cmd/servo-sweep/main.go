// Command servo-sweep sweeps a servo between its end positions.
//
// The servo starts at the mid-point, then repeatedly moves minimum,
// mid-point, maximum with a half-second pause between positions.
//
// Usage:
//
//	go run ./cmd/servo-sweep [-port /dev/ttyACM0] [-pin 9] [-cycles 3]
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
	pin := flag.Int("pin", devices.DefaultServoPin, "Servo pin")
	cycles := flag.Int("cycles", 3, "Number of sweep cycles")
	simulate := flag.Bool("simulate", false, "Run against the in-memory protocol simulator")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	reg, err := newRegistry(*port, *simulate)
	if err != nil {
		log.Fatal(err)
	}
	defer reg.Close()

	servo, err := devices.NewServo(reg, board.NumericPin(*pin))
	if err != nil {
		log.Fatalf("Failed to create servo: %v", err)
	}

	for i := 0; i < *cycles; i++ {
		for _, step := range []struct {
			name string
			move func() error
		}{
			{"min", servo.Min},
			{"mid", servo.Mid},
			{"max", servo.Max},
		} {
			log.Printf("Servo %d -> %s", *pin, step.name)
			if err := step.move(); err != nil {
				log.Fatalf("Failed to move servo: %v", err)
			}
			time.Sleep(500 * time.Millisecond)
		}
	}
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
