package board

import (
	"errors"
	"testing"
)

func TestParsePinSpec(t *testing.T) {
	tests := []struct {
		name string
		spec string
		want PinAddress
	}{
		{
			name: "digital output",
			spec: "digital:7:output",
			want: PinAddress{Kind: KindDigital, ID: NumericPin(7), Mode: ModeOutput},
		},
		{
			name: "digital servo",
			spec: "digital:9:servo",
			want: PinAddress{Kind: KindDigital, ID: NumericPin(9), Mode: ModeServo},
		},
		{
			name: "short mode aliases",
			spec: "digital:13:o",
			want: PinAddress{Kind: KindDigital, ID: NumericPin(13), Mode: ModeOutput},
		},
		{
			name: "short servo alias",
			spec: "digital:3:s",
			want: PinAddress{Kind: KindDigital, ID: NumericPin(3), Mode: ModeServo},
		},
		{
			name: "analog kind",
			spec: "analog:2:output",
			want: PinAddress{Kind: KindAnalog, ID: NumericPin(2), Mode: ModeOutput},
		},
		{
			name: "symbolic pin",
			spec: "digital:a1:output",
			want: PinAddress{Kind: KindDigital, ID: SymbolicPin("a1"), Mode: ModeOutput},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePinSpec(tt.spec)
			if err != nil {
				t.Fatalf("ParsePinSpec(%q) failed: %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("ParsePinSpec(%q) = %v, want %v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestParsePinSpecInvalid(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{"empty", ""},
		{"missing segments", "digital:7"},
		{"too many segments", "digital:7:output:extra"},
		{"unknown kind", "pwm:7:output"},
		{"unknown mode", "digital:7:input"},
		{"negative pin", "digital:-1:output"},
		{"empty pin", "digital::output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePinSpec(tt.spec)
			if !errors.Is(err, ErrInvalidPinSpec) {
				t.Errorf("ParsePinSpec(%q) = %v, want ErrInvalidPinSpec", tt.spec, err)
			}
		})
	}
}

func TestPinSpecRoundTrip(t *testing.T) {
	for _, spec := range []string{"digital:13:output", "digital:9:servo", "analog:a1:output"} {
		addr, err := ParsePinSpec(spec)
		if err != nil {
			t.Fatalf("ParsePinSpec(%q) failed: %v", spec, err)
		}
		if addr.String() != spec {
			t.Errorf("round trip of %q = %q", spec, addr.String())
		}
	}
}

func TestPinIDFrom(t *testing.T) {
	id, err := PinIDFrom(13)
	if err != nil {
		t.Fatalf("PinIDFrom(13) failed: %v", err)
	}
	if id.IsSymbolic() {
		t.Error("PinIDFrom(13) should be numeric")
	}
	if n, ok := id.Index(); !ok || n != 13 {
		t.Errorf("Index() = %d, %v, want 13, true", n, ok)
	}

	id, err = PinIDFrom("a1")
	if err != nil {
		t.Fatalf("PinIDFrom(\"a1\") failed: %v", err)
	}
	if !id.IsSymbolic() || id.String() != "a1" {
		t.Errorf("PinIDFrom(\"a1\") = %v, want symbolic a1", id)
	}

	if _, err := PinIDFrom(3.5); !errors.Is(err, ErrInvalidPinSpec) {
		t.Errorf("PinIDFrom(float) = %v, want ErrInvalidPinSpec", err)
	}
	if _, err := PinIDFrom(-2); !errors.Is(err, ErrInvalidPinSpec) {
		t.Errorf("PinIDFrom(-2) = %v, want ErrInvalidPinSpec", err)
	}
	if _, err := PinIDFrom(""); !errors.Is(err, ErrInvalidPinSpec) {
		t.Errorf("PinIDFrom(\"\") = %v, want ErrInvalidPinSpec", err)
	}
	if _, err := PinIDFrom("a:1"); !errors.Is(err, ErrInvalidPinSpec) {
		t.Errorf("PinIDFrom(\"a:1\") = %v, want ErrInvalidPinSpec", err)
	}
}

func TestPinIDStrings(t *testing.T) {
	if got := NumericPin(13).String(); got != "13" {
		t.Errorf("NumericPin(13).String() = %q, want %q", got, "13")
	}
	if got := SymbolicPin("a1").String(); got != "a1" {
		t.Errorf("SymbolicPin(a1).String() = %q, want %q", got, "a1")
	}
}

func TestStateStrings(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUninitialized, "UNINITIALIZED"},
		{StateConnecting, "CONNECTING"},
		{StateReady, "READY"},
		{StateFailed, "FAILED"},
		{StateClosed, "CLOSED"},
		{State(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
