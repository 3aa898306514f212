package transport

import (
	"errors"
	"testing"
	"time"

	"go.bug.st/serial"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyACM0")
	if cfg.Port != "/dev/ttyACM0" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.BaudRate != 57600 {
		t.Errorf("BaudRate = %d, want 57600", cfg.BaudRate)
	}
	if cfg.DataBits != 8 || cfg.Parity != ParityNone || cfg.StopBits != 1 {
		t.Errorf("line settings = %d-%s-%d, want 8-none-1", cfg.DataBits, cfg.Parity, cfg.StopBits)
	}
}

func TestNormalizeFillsDefaults(t *testing.T) {
	cfg, err := Config{Port: "COM3"}.normalize()
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if cfg.BaudRate != DefaultBaudRate || cfg.DataBits != 8 || cfg.Parity != ParityNone || cfg.StopBits != 1 {
		t.Errorf("normalized = %+v", cfg)
	}
}

func TestNormalizeRejectsBadConfig(t *testing.T) {
	if _, err := (Config{}).normalize(); !errors.Is(err, ErrNoPort) {
		t.Errorf("empty port = %v, want ErrNoPort", err)
	}
	if _, err := (Config{Port: "COM3", BaudRate: -9600}).normalize(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("negative baud = %v, want ErrInvalidConfig", err)
	}
}

func TestModeMapping(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want serial.Mode
	}{
		{
			name: "8N1",
			cfg:  Config{Port: "p", BaudRate: 57600, DataBits: 8, Parity: ParityNone, StopBits: 1},
			want: serial.Mode{BaudRate: 57600, DataBits: 8, Parity: serial.NoParity, StopBits: serial.OneStopBit},
		},
		{
			name: "7E2",
			cfg:  Config{Port: "p", BaudRate: 9600, DataBits: 7, Parity: ParityEven, StopBits: 2},
			want: serial.Mode{BaudRate: 9600, DataBits: 7, Parity: serial.EvenParity, StopBits: serial.TwoStopBits},
		},
		{
			name: "odd parity",
			cfg:  Config{Port: "p", BaudRate: 9600, DataBits: 8, Parity: ParityOdd, StopBits: 1},
			want: serial.Mode{BaudRate: 9600, DataBits: 8, Parity: serial.OddParity, StopBits: serial.OneStopBit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := tt.cfg.mode()
			if err != nil {
				t.Fatalf("mode failed: %v", err)
			}
			if *mode != tt.want {
				t.Errorf("mode = %+v, want %+v", *mode, tt.want)
			}
		})
	}
}

func TestModeRejectsUnknownSettings(t *testing.T) {
	if _, err := (Config{Port: "p", Parity: "mark"}).mode(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("unknown parity = %v, want ErrInvalidConfig", err)
	}
	if _, err := (Config{Port: "p", Parity: ParityNone, StopBits: 3}).mode(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("bad stop bits = %v, want ErrInvalidConfig", err)
	}
}

func TestOpenMissingPort(t *testing.T) {
	if _, err := Open(Config{}); !errors.Is(err, ErrNoPort) {
		t.Errorf("Open without port = %v, want ErrNoPort", err)
	}

	// Dialer defers the failure to dial time.
	dial := Dialer(Config{ReadTimeout: time.Second})
	if _, err := dial(); !errors.Is(err, ErrNoPort) {
		t.Errorf("Dialer without port = %v, want ErrNoPort", err)
	}
}
