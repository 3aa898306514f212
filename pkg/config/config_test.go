package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/firmatazero/firmatazero-go/pkg/board"
	"github.com/firmatazero/firmatazero-go/pkg/transport"
)

const sampleProfile = `
serial:
  port: /dev/ttyACM0
  baud: 115200
  read_timeout_ms: 250
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
    min_pulse_us: 1000
    max_pulse_us: 2000
  - name: onboard
    kind: led
    pin: LED_BUILTIN
`

func TestParseProfile(t *testing.T) {
	p, err := Parse([]byte(sampleProfile))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if p.Serial.Port != "/dev/ttyACM0" {
		t.Errorf("port = %q", p.Serial.Port)
	}
	if len(p.Devices) != 4 {
		t.Fatalf("parsed %d devices, want 4", len(p.Devices))
	}

	relay, ok := p.Device("relay")
	if !ok {
		t.Fatal("relay not found")
	}
	if !relay.ActiveLow || !relay.InitialOn {
		t.Errorf("relay flags = %+v", relay)
	}
	id, err := relay.PinID()
	if err != nil {
		t.Fatalf("relay pin: %v", err)
	}
	if id.String() != "7" {
		t.Errorf("relay pin = %q, want 7", id)
	}

	onboard, _ := p.Device("onboard")
	id, err = onboard.PinID()
	if err != nil {
		t.Fatalf("onboard pin: %v", err)
	}
	if !id.IsSymbolic() || id.String() != "LED_BUILTIN" {
		t.Errorf("onboard pin = %q, want symbolic LED_BUILTIN", id)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "malformed yaml",
			yaml: "serial: [",
			want: ErrInvalidProfile,
		},
		{
			name: "missing port",
			yaml: "serial: {baud: 9600}",
			want: ErrInvalidProfile,
		},
		{
			name: "unknown kind",
			yaml: "serial: {port: COM3}\ndevices: [{name: x, kind: buzzer, pin: 4}]",
			want: ErrUnknownKind,
		},
		{
			name: "unnamed device",
			yaml: "serial: {port: COM3}\ndevices: [{kind: led, pin: 4}]",
			want: ErrInvalidProfile,
		},
		{
			name: "duplicate name",
			yaml: "serial: {port: COM3}\ndevices: [{name: a, kind: led, pin: 4}, {name: a, kind: led, pin: 5}]",
			want: ErrInvalidProfile,
		},
		{
			name: "bad pin",
			yaml: "serial: {port: COM3}\ndevices: [{name: a, kind: led, pin: -1}]",
			want: board.ErrInvalidPinSpec,
		},
		{
			name: "pulses on non-servo",
			yaml: "serial: {port: COM3}\ndevices: [{name: a, kind: led, pin: 4, min_pulse_us: 544}]",
			want: ErrInvalidProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if !errors.Is(err, tt.want) {
				t.Errorf("Parse error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSerialConfig(t *testing.T) {
	p, err := Parse([]byte(sampleProfile))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cfg := p.SerialConfig()
	if cfg.Port != "/dev/ttyACM0" {
		t.Errorf("port = %q", cfg.Port)
	}
	if cfg.BaudRate != 115200 {
		t.Errorf("baud = %d, want 115200", cfg.BaudRate)
	}
	if cfg.ReadTimeout != 250*time.Millisecond {
		t.Errorf("read timeout = %v", cfg.ReadTimeout)
	}
}

func TestSerialConfigDefaults(t *testing.T) {
	p := &Profile{Serial: SerialSpec{Port: "COM3"}}
	cfg := p.SerialConfig()
	if cfg.BaudRate != transport.DefaultBaudRate {
		t.Errorf("baud = %d, want default %d", cfg.BaudRate, transport.DefaultBaudRate)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(sampleProfile), 0o600); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(p.Devices) != 4 {
		t.Errorf("loaded %d devices, want 4", len(p.Devices))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("loading a missing file should fail")
	}
}
