package pricing

import (
	"math/big"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalValue(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		price    string
		want     float64
	}{
		{"basic", "50", "98.45", 49225},
		{"zero quantity", "0", "98.45", 0},
		{"empty quantity defaults to zero", "", "98.45", 0},
		{"non-numeric quantity", "abc", "98.45", 0},
		{"empty price", "50", "", 0},
		{"whitespace tolerated", " 50 ", " 98.45 ", 49225},
		{"single bond at par", "1", "100", 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, TotalValue(tt.quantity, tt.price), 1e-9)
		})
	}
}

func TestTotalValueScalesWithQuantity(t *testing.T) {
	// totalValue(q, p) == q * p * 10 across a range of inputs.
	for q := 0; q <= 100; q += 7 {
		got := TotalValue(strconv.Itoa(q), "98.45")
		assert.InDelta(t, float64(q)*98.45*10, got, 1e-6)
	}
}

func TestEstimatedYield(t *testing.T) {
	assert.InDelta(t, 4.18, EstimatedYield("4.18%"), 1e-9)
	assert.InDelta(t, 4.18, EstimatedYield("4.18"), 1e-9)
	assert.InDelta(t, 0, EstimatedYield(""), 1e-9)
	assert.InDelta(t, 0, EstimatedYield("n/a"), 1e-9)
}

func TestFormatYield(t *testing.T) {
	assert.Equal(t, "4.18%", FormatYield(4.18))
	assert.Equal(t, "4.00%", FormatYield(4))
	assert.Equal(t, "4.19%", FormatYield(4.185))
}

func TestNativeValueExact(t *testing.T) {
	// 50 bonds @ 98.45 -> $49,225 -> exactly 49225 * 10^18 smallest units.
	want, ok := new(big.Int).SetString("49225000000000000000000", 10)
	require.True(t, ok)

	got := NativeValue(TotalValue("50", "98.45"))
	assert.Zero(t, want.Cmp(got), "want %s, got %s", want, got)
}

func TestNativeValueEdges(t *testing.T) {
	assert.Zero(t, NativeValue(0).Sign())
	assert.Zero(t, NativeValue(-12.5).Sign(), "negative totals clamp to zero")

	one := NativeValue(1)
	want, _ := new(big.Int).SetString("1000000000000000000", 10)
	assert.Zero(t, want.Cmp(one))
}
