package gasprice

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Bounds is the safe operating range for oracle gas prices, in gwei.
type Bounds struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// NewBounds returns Bounds after checking 0 <= min <= max.
func NewBounds(min, max decimal.Decimal) (Bounds, error) {
	if min.IsNegative() {
		return Bounds{}, fmt.Errorf("min gas price %s must not be negative", min)
	}
	if min.GreaterThan(max) {
		return Bounds{}, fmt.Errorf("min gas price %s exceeds max gas price %s", min, max)
	}
	return Bounds{Min: min, Max: max}, nil
}

// Clamp returns v limited to [Min, Max].
func (b Bounds) Clamp(v decimal.Decimal) decimal.Decimal {
	if v.LessThan(b.Min) {
		return b.Min
	}
	if v.GreaterThan(b.Max) {
		return b.Max
	}
	return v
}
