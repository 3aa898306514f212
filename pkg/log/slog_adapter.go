package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes board events to an slog.Logger.
// Useful for development when you want to see pin traffic in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("conn_id", event.ConnectionID),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	// Add optional identifiers
	if event.Pin != "" {
		attrs = append(attrs, slog.String("pin", event.Pin))
	}
	if event.Port != "" {
		attrs = append(attrs, slog.String("port", event.Port))
	}

	// Add type-specific attributes
	switch {
	case event.PinOp != nil:
		attrs = append(attrs, slog.String("op", event.PinOp.Op.String()))
		if event.PinOp.Mode != "" {
			attrs = append(attrs, slog.String("mode", event.PinOp.Mode))
		}
		if event.PinOp.Value != nil {
			attrs = append(attrs, slog.Int("value", *event.PinOp.Value))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.ServoConfig != nil:
		attrs = append(attrs,
			slog.Int("min_pulse_us", event.ServoConfig.MinPulseUS),
			slog.Int("max_pulse_us", event.ServoConfig.MaxPulseUS),
			slog.Int("angle_deg", event.ServoConfig.AngleDeg),
		)
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Context != "" {
			attrs = append(attrs, slog.String("error_context", event.Error.Context))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "board", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
