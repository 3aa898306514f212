package devices_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/firmatazero/firmatazero-go/pkg/board"
	"github.com/firmatazero/firmatazero-go/pkg/devices"
)

func TestLEDOnToggle(t *testing.T) {
	reg, p := newTestRegistry(t)

	led, err := devices.NewLED(reg, board.NumericPin(devices.DefaultLEDPin))
	require.NoError(t, err)

	require.NoError(t, led.On())
	assert.Equal(t, 1, p.Value("13"))

	require.NoError(t, led.Toggle())
	assert.Equal(t, 0, p.Value("13"))

	lit, err := led.IsLit()
	require.NoError(t, err)
	assert.False(t, lit)
}

func TestLEDConstructionDoesNotWrite(t *testing.T) {
	reg, p := newTestRegistry(t)

	_, err := devices.NewLED(reg, board.NumericPin(devices.DefaultLEDPin))
	require.NoError(t, err)

	assert.Equal(t, 1, p.CountOps("configure"))
	assert.Equal(t, 0, p.CountOps("write"))
}

func TestLEDInitialOn(t *testing.T) {
	reg, p := newTestRegistry(t)

	led, err := devices.NewLEDWithConfig(reg, board.NumericPin(5), devices.LEDConfig{
		Initial: devices.InitialOn,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, p.Value("5"))

	lit, err := led.IsLit()
	require.NoError(t, err)
	assert.True(t, lit)
}

func TestLEDSetValue(t *testing.T) {
	reg, p := newTestRegistry(t)

	led, err := devices.NewLED(reg, board.NumericPin(5))
	require.NoError(t, err)

	require.NoError(t, led.SetValue(true))
	assert.Equal(t, 1, p.Value("5"))

	value, err := led.Value()
	require.NoError(t, err)
	assert.True(t, value)

	require.NoError(t, led.SetValue(false))
	assert.Equal(t, 0, p.Value("5"))
}

func TestLEDModeConflictWithServo(t *testing.T) {
	reg, _ := newTestRegistry(t)

	_, err := devices.NewLED(reg, board.NumericPin(9))
	require.NoError(t, err)

	_, err = devices.NewServo(reg, board.NumericPin(9))
	require.ErrorIs(t, err, board.ErrPinModeConflict)
}
