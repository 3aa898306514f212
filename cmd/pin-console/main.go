// Command pin-console is an interactive console for the board API.
//
// The console drives LEDs, digital outputs, servos and raw pins through
// the shared board connection. The firmware wire protocol is an external
// collaborator of the board package; pin-console binds a built-in
// protocol simulator, so every command is recorded and answered locally.
// With -port the serial transport is opened for real, which verifies the
// port settings even though the simulator answers the protocol.
//
// Usage:
//
//	pin-console [flags]
//
// Flags:
//
//	-port string      Serial port, e.g. /dev/ttyACM0 or COM3
//	-baud int         Baud rate (default 57600)
//	-config string    Device profile (YAML)
//	-log-file string  Write the wire-event log to this file (CBOR)
//	-simulate         Skip the serial port, run fully in memory
//
// Examples:
//
//	# Fully simulated session
//	pin-console -simulate
//
//	# Open a real port, record events to a log
//	pin-console -port /dev/ttyACM0 -log-file session.plog
//
//	# Bring up the devices of a profile
//	pin-console -config boards/uno.yaml -simulate
package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/firmatazero/firmatazero-go/cmd/pin-console/interactive"
	"github.com/firmatazero/firmatazero-go/internal/mock"
	"github.com/firmatazero/firmatazero-go/pkg/board"
	"github.com/firmatazero/firmatazero-go/pkg/config"
	"github.com/firmatazero/firmatazero-go/pkg/devices"
	"github.com/firmatazero/firmatazero-go/pkg/log"
	"github.com/firmatazero/firmatazero-go/pkg/transport"
)

// Config holds the console configuration.
// It implements interactive.ConsoleConfig.
type Config struct {
	Port       string
	Baud       int
	ConfigFile string
	LogFile    string
	Simulate   bool

	profile *config.Profile
}

// PortName implements interactive.ConsoleConfig.
func (c *Config) PortName() string {
	if c.Simulate {
		return "simulated"
	}
	return c.Port
}

// Profile implements interactive.ConsoleConfig.
func (c *Config) Profile() *config.Profile {
	return c.profile
}

var cfg Config

func init() {
	flag.StringVar(&cfg.Port, "port", "", "Serial port, e.g. /dev/ttyACM0 or COM3")
	flag.IntVar(&cfg.Baud, "baud", transport.DefaultBaudRate, "Baud rate")
	flag.StringVar(&cfg.ConfigFile, "config", "", "Device profile (YAML)")
	flag.StringVar(&cfg.LogFile, "log-file", "", "Write the wire-event log to this file (CBOR)")
	flag.BoolVar(&cfg.Simulate, "simulate", false, "Skip the serial port, run fully in memory")
}

func main() {
	flag.Parse()
	stdlog.SetFlags(stdlog.Ltime | stdlog.Lmicroseconds)

	if cfg.Port == "" && !cfg.Simulate {
		stdlog.Fatal("either -port or -simulate is required")
	}

	if cfg.ConfigFile != "" {
		profile, err := config.Load(cfg.ConfigFile)
		if err != nil {
			stdlog.Fatalf("Failed to load profile: %v", err)
		}
		cfg.profile = profile
		if cfg.Port == "" {
			cfg.Port = profile.Serial.Port
		}
	}

	// Event logging
	logger := log.Logger(log.NoopLogger{})
	if cfg.LogFile != "" {
		fl, err := log.NewFileLogger(cfg.LogFile)
		if err != nil {
			stdlog.Fatalf("Failed to open log file: %v", err)
		}
		defer fl.Close()
		logger = fl
		stdlog.Printf("Recording wire events to %s", cfg.LogFile)
	}

	// Board connection: built-in protocol simulator, optionally bound
	// over a real serial port.
	protocol := mock.NewProtocol()
	boardCfg := board.Config{
		Protocol: protocol.Factory(),
		Logger:   logger,
	}
	if cfg.Simulate {
		boardCfg.Dial = mock.Dial
		boardCfg.PortName = "simulated"
	} else {
		serialCfg := transport.DefaultConfig(cfg.Port)
		serialCfg.BaudRate = cfg.Baud
		if cfg.profile != nil {
			serialCfg = cfg.profile.SerialConfig()
		}
		boardCfg.Dial = transport.Dialer(serialCfg)
		boardCfg.PortName = cfg.Port
	}

	reg := board.NewRegistry(boardCfg)
	defer reg.Close()

	if cfg.profile != nil {
		if err := bringUpDevices(reg, cfg.profile); err != nil {
			stdlog.Fatalf("Failed to bring up profile devices: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	console, err := interactive.New(reg, &cfg)
	if err != nil {
		stdlog.Fatalf("Failed to create console: %v", err)
	}
	// Redirect log output through readline to avoid interfering with input
	stdlog.SetOutput(console.Stdout())
	go console.Run(ctx, cancel)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		stdlog.Printf("Received signal: %v", sig)
	case <-ctx.Done():
		// Cancelled by the quit command
	}

	stdlog.SetOutput(os.Stderr)
	stdlog.Println("Goodbye!")
}

// bringUpDevices constructs every device declared in the profile, which
// establishes the connection and configures all pins up front.
func bringUpDevices(reg *board.Registry, profile *config.Profile) error {
	for _, spec := range profile.Devices {
		pin, err := spec.PinID()
		if err != nil {
			return err
		}

		switch spec.Kind {
		case config.KindLED:
			ledCfg := devices.LEDConfig{}
			if spec.InitialOn {
				ledCfg.Initial = devices.InitialOn
			}
			if _, err := devices.NewLEDWithConfig(reg, pin, ledCfg); err != nil {
				return err
			}

		case config.KindDigitalOutput:
			outCfg := devices.DigitalOutputConfig{ActiveLow: spec.ActiveLow}
			if spec.InitialOn {
				outCfg.Initial = devices.InitialOn
			}
			if _, err := devices.NewDigitalOutputDeviceWithConfig(reg, pin, outCfg); err != nil {
				return err
			}

		case config.KindServo:
			servoCfg := devices.ServoConfig{}
			if spec.MinPulseUS > 0 {
				servoCfg.MinPulseWidth = time.Duration(spec.MinPulseUS) * time.Microsecond
			}
			if spec.MaxPulseUS > 0 {
				servoCfg.MaxPulseWidth = time.Duration(spec.MaxPulseUS) * time.Microsecond
			}
			if _, err := devices.NewServoWithConfig(reg, pin, servoCfg); err != nil {
				return err
			}
		}

		stdlog.Printf("Device up: %s (%s, pin %v)", spec.Name, spec.Kind, spec.Pin)
	}
	return nil
}
