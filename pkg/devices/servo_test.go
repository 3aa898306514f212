package devices_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firmatazero/firmatazero-go/pkg/board"
	"github.com/firmatazero/firmatazero-go/pkg/devices"
)

func TestServoConstructionConfiguresPulses(t *testing.T) {
	reg, p := newTestRegistry(t)

	_, err := devices.NewServo(reg, board.NumericPin(devices.DefaultServoPin))
	require.NoError(t, err)

	ops := p.Ops()
	var cfg []mockOpServo
	for _, op := range ops {
		if op.Kind == "servo_config" {
			cfg = append(cfg, mockOpServo{op.Pin, op.MinPulseUS, op.MaxPulseUS, op.AngleDeg})
		}
	}
	require.Len(t, cfg, 1)
	assert.Equal(t, mockOpServo{"9", 544, 2400, 90}, cfg[0])
}

type mockOpServo struct {
	pin        string
	minPulseUS int
	maxPulseUS int
	angleDeg   int
}

func TestServoCustomPulseWidths(t *testing.T) {
	reg, p := newTestRegistry(t)

	_, err := devices.NewServoWithConfig(reg, board.NumericPin(9), devices.ServoConfig{
		InitialValue:  -1,
		MinPulseWidth: 1 * time.Millisecond,
		MaxPulseWidth: 2 * time.Millisecond,
	})
	require.NoError(t, err)

	ops := p.PinOps("9")
	require.NotEmpty(t, ops)
	last := ops[len(ops)-1]
	assert.Equal(t, "servo_config", last.Kind)
	assert.Equal(t, 1000, last.MinPulseUS)
	assert.Equal(t, 2000, last.MaxPulseUS)
	assert.Equal(t, 0, last.AngleDeg)
}

func TestServoValueToDegrees(t *testing.T) {
	reg, p := newTestRegistry(t)

	s, err := devices.NewServo(reg, board.NumericPin(9))
	require.NoError(t, err)

	cases := []struct {
		value float64
		deg   int
	}{
		{-1, 0},
		{-0.5, 45},
		{0, 90},
		{0.5, 135},
		{1, 180},
	}
	for _, tc := range cases {
		require.NoError(t, s.SetValue(tc.value))
		assert.Equal(t, tc.deg, p.Value("9"), "value %v", tc.value)

		got, err := s.Value()
		require.NoError(t, err)
		assert.InDelta(t, tc.value, got, 0.01, "value %v should round-trip", tc.value)
	}
}

func TestServoMinMidMax(t *testing.T) {
	reg, p := newTestRegistry(t)

	s, err := devices.NewServo(reg, board.NumericPin(9))
	require.NoError(t, err)

	require.NoError(t, s.Min())
	assert.Equal(t, 0, p.Value("9"))

	require.NoError(t, s.Mid())
	assert.Equal(t, 90, p.Value("9"))

	require.NoError(t, s.Max())
	assert.Equal(t, 180, p.Value("9"))
}

func TestServoValueOutOfRange(t *testing.T) {
	reg, _ := newTestRegistry(t)

	s, err := devices.NewServo(reg, board.NumericPin(9))
	require.NoError(t, err)

	for _, v := range []float64{-1.01, 1.01, 5} {
		err := s.SetValue(v)
		assert.ErrorIs(t, err, devices.ErrValueOutOfRange, "value %v", v)
	}

	_, err = devices.NewServoWithConfig(reg, board.NumericPin(10), devices.ServoConfig{
		InitialValue: 2,
	})
	assert.ErrorIs(t, err, devices.ErrValueOutOfRange)
}

func TestServoInvalidPulseBounds(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := devices.NewServoWithConfig(reg, board.NumericPin(9), devices.ServoConfig{
		MinPulseWidth: 3 * time.Millisecond,
		MaxPulseWidth: 1 * time.Millisecond,
	})
	require.ErrorIs(t, err, board.ErrServoConfig)
}
