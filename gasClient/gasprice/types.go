package gasprice

import (
	"math/big"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// SpeedTable maps a speed tier (e.g. "fast", "standard") to a gas price in gwei.
// Tables are never modified after they are built.
type SpeedTable map[string]decimal.Decimal

// Lookup returns the gwei price for a tier. A zero price is still Some.
func (t SpeedTable) Lookup(speed string) optional.Option[decimal.Decimal] {
	v, ok := t[speed]
	if !ok {
		return optional.None[decimal.Decimal]()
	}
	return optional.Some(v)
}

// OracleResponse is the result of one successful oracle fetch.
type OracleResponse struct {
	// SpeedTable holds every numeric tier from the payload, in gwei
	SpeedTable SpeedTable
	// SelectedValue is the configured tier, clamped and converted to wei
	SelectedValue *big.Int
}

// Outcome is what a single refresh cycle decided to update.
type Outcome struct {
	Value      optional.Option[*big.Int]
	SpeedTable optional.Option[SpeedTable]
}

// IsEmpty reports whether the cycle produced no update at all.
func (o Outcome) IsEmpty() bool {
	return o.Value.IsNone() && o.SpeedTable.IsNone()
}
