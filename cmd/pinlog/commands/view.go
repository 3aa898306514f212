// Package commands implements the pinlog CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/firmatazero/firmatazero-go/pkg/log"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Layer    *log.Layer
	Category *log.Category
	Pin      string
}

// ParseLayerFlag maps a -layer flag value to a log.Layer.
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "protocol":
		return log.LayerProtocol, nil
	case "device":
		return log.LayerDevice, nil
	default:
		return 0, fmt.Errorf("unknown layer %q (use: transport, protocol, device)", s)
	}
}

// ParseCategoryFlag maps a -category flag value to a log.Category.
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "pinop", "pin":
		return log.CategoryPinOp, nil
	case "state":
		return log.CategoryState, nil
	case "config":
		return log.CategoryConfig, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("unknown category %q (use: pinop, state, config, error)", s)
	}
}

// RunView reads the log file and writes matching events to w in
// human-readable form.
func RunView(path string, filter ViewFilter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, log.Filter{
		Layer:    filter.Layer,
		Category: filter.Category,
		Pin:      filter.Pin,
	})
	if err != nil {
		return err
	}
	defer reader.Close()

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
		count++
	}

	fmt.Fprintf(w, "%d event(s)\n", count)
	return nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	connID := shortenConnID(event.ConnectionID)

	var typeLabel string
	switch {
	case event.PinOp != nil:
		typeLabel = event.PinOp.Op.String()
	case event.StateChange != nil:
		typeLabel = "State"
	case event.ServoConfig != nil:
		typeLabel = "ServoConfig"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [conn:%s] %s %s", ts, connID, event.Layer, typeLabel)
	if event.Pin != "" {
		fmt.Fprintf(w, " pin=%s", event.Pin)
	}
	fmt.Fprintln(w)

	switch {
	case event.PinOp != nil:
		formatPinOpDetails(w, event.PinOp)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.ServoConfig != nil:
		formatServoConfigDetails(w, event.ServoConfig)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenConnID returns the first 8 characters of the connection ID.
func shortenConnID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatPinOpDetails(w io.Writer, op *log.PinOpEvent) {
	if op.Mode != "" {
		fmt.Fprintf(w, "  Mode: %s\n", op.Mode)
	}
	if op.Value != nil {
		fmt.Fprintf(w, "  Value: %d\n", *op.Value)
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.OldState != "" {
		fmt.Fprintf(w, "  Transition: %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  State: %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatServoConfigDetails(w io.Writer, sc *log.ServoConfigEvent) {
	fmt.Fprintf(w, "  Pulse: %d-%d us, angle %d deg\n", sc.MinPulseUS, sc.MaxPulseUS, sc.AngleDeg)
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Error: %s\n", e.Message)
	if e.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", e.Context)
	}
}
