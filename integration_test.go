package firmatazero_test

import (
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/firmatazero/firmatazero-go/internal/mock"
	"github.com/firmatazero/firmatazero-go/pkg/board"
	"github.com/firmatazero/firmatazero-go/pkg/config"
	"github.com/firmatazero/firmatazero-go/pkg/devices"
	"github.com/firmatazero/firmatazero-go/pkg/log"
)

// TestE2E_ProfileToEventLog brings up a full board from a YAML profile,
// drives its devices, and verifies the recorded event log end to end.
func TestE2E_ProfileToEventLog(t *testing.T) {
	profile, err := config.Parse([]byte(`
serial:
  port: /dev/ttyACM0
devices:
  - name: status
    kind: led
    pin: 13
  - name: relay
    kind: digital_output
    pin: 7
    active_low: true
    initial_on: true
  - name: pan
    kind: servo
    pin: 9
`))
	if err != nil {
		t.Fatalf("Failed to parse profile: %v", err)
	}

	logPath := filepath.Join(t.TempDir(), "session.plog")
	logger, err := log.NewFileLogger(logPath)
	if err != nil {
		t.Fatalf("Failed to create event log: %v", err)
	}

	protocol := mock.NewProtocol()
	cfg := mock.BoardConfig(protocol)
	cfg.PortName = profile.Serial.Port
	cfg.Logger = logger

	reg := board.NewRegistry(cfg)
	defer reg.Close()

	// Bring up every profile device the way pin-console does.
	led, err := newLED(reg, profile, "status")
	if err != nil {
		t.Fatalf("Failed to create LED: %v", err)
	}
	relaySpec, _ := profile.Device("relay")
	relayPin, _ := relaySpec.PinID()
	relay, err := devices.NewDigitalOutputDeviceWithConfig(reg, relayPin, devices.DigitalOutputConfig{
		ActiveLow: relaySpec.ActiveLow,
		Initial:   devices.InitialOn,
	})
	if err != nil {
		t.Fatalf("Failed to create relay: %v", err)
	}
	panSpec, _ := profile.Device("pan")
	panPin, _ := panSpec.PinID()
	servo, err := devices.NewServo(reg, panPin)
	if err != nil {
		t.Fatalf("Failed to create servo: %v", err)
	}

	if n := protocol.CountOps("handshake"); n != 1 {
		t.Errorf("handshakes = %d, want 1 (devices must share the connection)", n)
	}

	// The relay is active-low and initially on: pin level must be low.
	if v := protocol.Value("7"); v != 0 {
		t.Errorf("relay pin level = %d, want 0 (active-low on)", v)
	}

	// Drive the devices.
	if err := led.On(); err != nil {
		t.Fatalf("LED on: %v", err)
	}
	if err := servo.Max(); err != nil {
		t.Fatalf("Servo max: %v", err)
	}
	if err := relay.Off(); err != nil {
		t.Fatalf("Relay off: %v", err)
	}

	if v := protocol.Value("13"); v != 1 {
		t.Errorf("LED pin level = %d, want 1", v)
	}
	if v := protocol.Value("9"); v != 180 {
		t.Errorf("servo angle = %d, want 180", v)
	}
	if v := protocol.Value("7"); v != 1 {
		t.Errorf("relay pin level = %d, want 1 (active-low off)", v)
	}

	if err := logger.Close(); err != nil {
		t.Fatalf("Failed to close event log: %v", err)
	}

	// Read the log back: the servo configuration and the LED write must
	// both have been captured with the profile's port name.
	pin := ""
	writes, configs := 0, 0
	reader, err := log.NewReader(logPath)
	if err != nil {
		t.Fatalf("Failed to open event log: %v", err)
	}
	defer reader.Close()
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Failed to read event: %v", err)
		}
		if event.Port != "/dev/ttyACM0" {
			t.Fatalf("event port = %q, want /dev/ttyACM0", event.Port)
		}
		switch {
		case event.PinOp != nil && event.PinOp.Op == log.PinOpWrite:
			writes++
		case event.ServoConfig != nil:
			configs++
			pin = event.Pin
		}
	}
	if writes == 0 {
		t.Error("no pin writes recorded in the event log")
	}
	if configs != 1 || pin != "9" {
		t.Errorf("servo configs = %d on pin %q, want 1 on pin 9", configs, pin)
	}
}

// TestE2E_ConcurrentDevices drives independent devices from many
// goroutines and verifies that no wire operation ever overlapped
// another.
func TestE2E_ConcurrentDevices(t *testing.T) {
	protocol := mock.NewProtocol()
	protocol.OpDelay = 20 * time.Microsecond

	reg := board.NewRegistry(mock.BoardConfig(protocol))
	defer reg.Close()

	const workers = 4
	const opsPer = 100

	var outs [workers]*devices.DigitalOutputDevice
	for i := range outs {
		d, err := devices.NewDigitalOutputDevice(reg, board.NumericPin(i+2))
		if err != nil {
			t.Fatalf("Failed to create device %d: %v", i, err)
		}
		outs[i] = d
	}
	servo, err := devices.NewServo(reg, board.NumericPin(10))
	if err != nil {
		t.Fatalf("Failed to create servo: %v", err)
	}

	var wg sync.WaitGroup
	for _, d := range outs {
		wg.Add(1)
		go func(d *devices.DigitalOutputDevice) {
			defer wg.Done()
			for j := 0; j < opsPer; j++ {
				if err := d.Toggle(); err != nil {
					t.Errorf("toggle: %v", err)
					return
				}
			}
		}(d)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		positions := []float64{-1, 0, 1}
		for j := 0; j < opsPer; j++ {
			if err := servo.SetValue(positions[j%len(positions)]); err != nil {
				t.Errorf("servo: %v", err)
				return
			}
		}
	}()
	wg.Wait()

	if protocol.Interleaved() {
		t.Error("wire operations interleaved across devices")
	}
}

func newLED(reg *board.Registry, profile *config.Profile, name string) (*devices.LED, error) {
	spec, _ := profile.Device(name)
	pin, err := spec.PinID()
	if err != nil {
		return nil, err
	}
	return devices.NewLED(reg, pin)
}
