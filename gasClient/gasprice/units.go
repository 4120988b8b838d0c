package gasprice

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// gweiExponent is the power of ten between gwei and wei.
const gweiExponent = 9

// GweiToWei converts a gwei amount to wei, dropping anything below one wei.
func GweiToWei(gwei decimal.Decimal) *big.Int {
	return gwei.Shift(gweiExponent).BigInt()
}

// WeiToGwei converts a wei amount to gwei without loss.
func WeiToGwei(wei *big.Int) decimal.Decimal {
	if wei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(wei, -gweiExponent)
}
