// Package interactive provides the interactive command-line interface
// for the pin console.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/firmatazero/firmatazero-go/pkg/board"
	"github.com/firmatazero/firmatazero-go/pkg/config"
	"github.com/firmatazero/firmatazero-go/pkg/devices"
)

// ConsoleConfig provides configuration information to the interactive
// console without depending on the main package's flag structure.
type ConsoleConfig interface {
	// PortName returns the serial port the console targets, or a
	// placeholder in simulate mode.
	PortName() string

	// Profile returns the loaded device profile, or nil.
	Profile() *config.Profile
}

// Console handles the interactive command loop of pin-console.
type Console struct {
	reg    *board.Registry
	config ConsoleConfig
	rl     *readline.Instance

	// Facades created on demand, keyed by pin spec.
	leds   map[string]*devices.LED
	servos map[string]*devices.Servo
}

// New creates a new interactive console handler.
func New(reg *board.Registry, cfg ConsoleConfig) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "pin> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Console{
		reg:    reg,
		config: cfg,
		rl:     rl,
		leds:   make(map[string]*devices.LED),
		servos: make(map[string]*devices.Servo),
	}, nil
}

// Stdout returns a writer that coordinates with the readline input. Use
// this for log output to avoid interfering with the command prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Stderr returns a writer that coordinates with the readline input.
func (c *Console) Stderr() io.Writer {
	return c.rl.Stderr()
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "led":
			c.cmdLED(args)

		case "servo":
			c.cmdServo(args)

		case "write", "w":
			c.cmdWrite(args)

		case "read", "r":
			c.cmdRead(args)

		case "devices", "ls":
			c.cmdDevices()

		case "status":
			c.cmdStatus()

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
Pin Console Commands:
  Devices:
    led [pin] on|off|toggle   - Drive an LED (default pin 13)
    servo [pin] <value>       - Move a servo to [-1, 1] (default pin 9)
    devices                   - List devices from the loaded profile

  Raw pins:
    write <spec> <0|1>        - Write a pin, e.g. write digital:7:output 1
    read <spec>               - Read a pin's last written value

  General:
    status                    - Show connection state
    help                      - Show this help
    quit                      - Exit`)
}

// cmdLED handles: led on | led off | led 5 toggle
func (c *Console) cmdLED(args []string) {
	pin := devices.DefaultLEDPin
	if len(args) == 2 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			c.errorf("invalid pin %q", args[0])
			return
		}
		pin = n
		args = args[1:]
	}
	if len(args) != 1 {
		c.errorf("usage: led [pin] on|off|toggle")
		return
	}

	led, err := c.led(pin)
	if err != nil {
		c.errorf("led: %v", err)
		return
	}

	switch strings.ToLower(args[0]) {
	case "on":
		err = led.On()
	case "off":
		err = led.Off()
	case "toggle":
		err = led.Toggle()
	default:
		c.errorf("usage: led [pin] on|off|toggle")
		return
	}
	if err != nil {
		c.errorf("led: %v", err)
		return
	}

	lit, err := led.IsLit()
	if err != nil {
		c.errorf("led: %v", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "LED %d: %s\n", pin, onOff(lit))
}

// cmdServo handles: servo 0.5 | servo 10 -1
func (c *Console) cmdServo(args []string) {
	pin := devices.DefaultServoPin
	if len(args) == 2 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			c.errorf("invalid pin %q", args[0])
			return
		}
		pin = n
		args = args[1:]
	}
	if len(args) != 1 {
		c.errorf("usage: servo [pin] <value in [-1, 1]>")
		return
	}

	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		c.errorf("invalid servo value %q", args[0])
		return
	}

	servo, err := c.servo(pin)
	if err != nil {
		c.errorf("servo: %v", err)
		return
	}
	if err := servo.SetValue(value); err != nil {
		c.errorf("servo: %v", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "Servo %d: %.2f\n", pin, value)
}

func (c *Console) cmdWrite(args []string) {
	if len(args) != 2 {
		c.errorf("usage: write <kind:pin:mode> <value>")
		return
	}
	value, err := strconv.Atoi(args[1])
	if err != nil {
		c.errorf("invalid value %q", args[1])
		return
	}

	conn, err := c.reg.Acquire()
	if err != nil {
		c.errorf("connect: %v", err)
		return
	}
	pin, err := conn.GetPin(args[0])
	if err != nil {
		c.errorf("pin: %v", err)
		return
	}
	if err := pin.Write(value); err != nil {
		c.errorf("write: %v", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "%s <- %d\n", pin.Address(), value)
}

func (c *Console) cmdRead(args []string) {
	if len(args) != 1 {
		c.errorf("usage: read <kind:pin:mode>")
		return
	}

	conn, err := c.reg.Acquire()
	if err != nil {
		c.errorf("connect: %v", err)
		return
	}
	pin, err := conn.GetPin(args[0])
	if err != nil {
		c.errorf("pin: %v", err)
		return
	}
	value, err := pin.Read()
	if err != nil {
		c.errorf("read: %v", err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), "%s = %d\n", pin.Address(), value)
}

func (c *Console) cmdDevices() {
	profile := c.config.Profile()
	if profile == nil || len(profile.Devices) == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No profile loaded (use -config)")
		return
	}
	for _, d := range profile.Devices {
		extra := ""
		if d.ActiveLow {
			extra = " active-low"
		}
		fmt.Fprintf(c.rl.Stdout(), "  %-12s %-15s pin %v%s\n", d.Name, d.Kind, d.Pin, extra)
	}
}

func (c *Console) cmdStatus() {
	out := c.rl.Stdout()
	fmt.Fprintf(out, "Port:  %s\n", c.config.PortName())
	fmt.Fprintf(out, "State: %s\n", c.reg.State())
	fmt.Fprintf(out, "LEDs: %d, servos: %d\n", len(c.leds), len(c.servos))
}

func (c *Console) led(pin int) (*devices.LED, error) {
	key := strconv.Itoa(pin)
	if led, ok := c.leds[key]; ok {
		return led, nil
	}
	led, err := devices.NewLED(c.reg, board.NumericPin(pin))
	if err != nil {
		return nil, err
	}
	c.leds[key] = led
	return led, nil
}

func (c *Console) servo(pin int) (*devices.Servo, error) {
	key := strconv.Itoa(pin)
	if servo, ok := c.servos[key]; ok {
		return servo, nil
	}
	servo, err := devices.NewServo(c.reg, board.NumericPin(pin))
	if err != nil {
		return nil, err
	}
	c.servos[key] = servo
	return servo, nil
}

func (c *Console) errorf(format string, args ...any) {
	fmt.Fprintf(c.rl.Stderr(), format+"\n", args...)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
