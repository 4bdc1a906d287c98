// Package pricing holds the pure quantity/value math for the trade pipeline.
// Everything here is side-effect free; unparsable user input is treated as
// zero rather than an error so the display math never throws.
package pricing

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// FaceValue is the nominal redemption value of one bond unit. Display only;
// settlement math never touches it.
const FaceValue = 1000

// faceScale converts "price per $1000 face value" into an aggregate cash
// amount per bond. This is a pricing convention, not a rounding factor, and
// must match the contract's expectation exactly.
const faceScale = 10

// nativeDecimals is the number of decimal places of the chain's smallest
// currency unit.
const nativeDecimals = 18

// usdPerNative is the assumed USD value of one native-currency unit. The
// 1:1 rate mirrors the contract's current placeholder convention; a price
// oracle replaces this constant, not the surrounding code.
const usdPerNative = 1

// ParseAmount parses a user-entered decimal string, returning 0 for empty or
// non-numeric input.
func ParseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// TotalValue computes the aggregate cash amount for a draft trade:
// quantity * unitPrice * 10, where unitPrice is denominated per $1000 face
// value. The result is unrounded; rounding happens only at display time.
func TotalValue(quantity, unitPrice string) float64 {
	return ParseAmount(quantity) * ParseAmount(unitPrice) * faceScale
}

// EstimatedYield parses a bond's yield percentage string ("4.18%" -> 4.18).
func EstimatedYield(yield string) float64 {
	return ParseAmount(strings.TrimSuffix(strings.TrimSpace(yield), "%"))
}

// FormatYield renders a yield with exactly two fraction digits.
func FormatYield(yield float64) string {
	return fmt.Sprintf("%.2f%%", yield)
}

// NativeValue converts an aggregate cash amount into the chain's smallest
// unit, floor-truncated. It must be fed the same unrounded number shown to
// the user, so the on-chain value and the displayed total never diverge.
func NativeValue(totalValue float64) *big.Int {
	// 128-bit mantissa keeps the product exact for any display-range total;
	// float64 math alone would round above 2^53 smallest units.
	f := new(big.Float).SetPrec(128).SetFloat64(totalValue / usdPerNative)
	scale := new(big.Float).SetPrec(128).SetInt(
		new(big.Int).Exp(big.NewInt(10), big.NewInt(nativeDecimals), nil),
	)
	f.Mul(f, scale)

	out, _ := f.Int(nil)
	if out.Sign() < 0 {
		return big.NewInt(0)
	}
	return out
}
