package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestSlogAdapterEmitsAttributes(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	adapter := NewSlogAdapter(slog.New(handler))

	value := 1
	adapter.Log(Event{
		Timestamp:    time.Now(),
		ConnectionID: "conn-1",
		Layer:        LayerProtocol,
		Category:     CategoryPinOp,
		Pin:          "13",
		PinOp:        &PinOpEvent{Op: PinOpWrite, Mode: "output", Value: &value},
	})

	out := buf.String()
	for _, want := range []string{"conn_id=conn-1", "layer=PROTOCOL", "category=PINOP", "pin=13", "op=WRITE", "mode=output", "value=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSlogAdapterStateChange(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	adapter := NewSlogAdapter(slog.New(handler))

	adapter.Log(Event{
		Timestamp:    time.Now(),
		ConnectionID: "conn-1",
		Layer:        LayerTransport,
		Category:     CategoryState,
		Port:         "/dev/ttyACM0",
		StateChange:  &StateChangeEvent{OldState: "CONNECTING", NewState: "READY"},
	})

	out := buf.String()
	for _, want := range []string{"old_state=CONNECTING", "new_state=READY", "port=/dev/ttyACM0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
