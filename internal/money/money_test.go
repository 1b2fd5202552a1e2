package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundToCent_HalfRoundsUp(t *testing.T) {
	assert.Equal(t, "66.67", Format(RoundToCent(decimal.RequireFromString("66.665"))))
	assert.Equal(t, "66.66", Format(RoundToCent(decimal.RequireFromString("66.664"))))
	assert.Equal(t, "100.00", Format(RoundToCent(decimal.RequireFromString("100"))))
}

func TestFloorZero(t *testing.T) {
	assert.True(t, FloorZero(decimal.RequireFromString("-0.01")).IsZero())
	assert.True(t, FloorZero(decimal.Zero).IsZero())
	assert.Equal(t, "12.34", Format(FloorZero(decimal.RequireFromString("12.34"))))
}

func TestIsPositive(t *testing.T) {
	assert.True(t, IsPositive(decimal.RequireFromString("0.01")))
	assert.False(t, IsPositive(decimal.Zero))
	assert.False(t, IsPositive(decimal.RequireFromString("-5")))
}

func TestFormat_AlwaysTwoPlaces(t *testing.T) {
	assert.Equal(t, "1200.00", Format(decimal.NewFromInt(1200)))
	assert.Equal(t, "0.50", Format(decimal.RequireFromString("0.5")))
}
