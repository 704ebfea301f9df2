package helper

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Float64ToDecimalExact converts through the shortest decimal string so that
// 1999.99 stays 1999.99 rather than its binary approximation.
func Float64ToDecimalExact(f float64) decimal.Decimal {
	return decimal.RequireFromString(
		strconv.FormatFloat(f, 'f', -1, 64),
	)
}

func Float64PtrToDecimalExact(f *float64) decimal.Decimal {
	if f == nil {
		return decimal.Zero
	}
	return Float64ToDecimalExact(*f)
}

// DecimalToFloat64 is for JSON payloads that must carry plain numbers.
func DecimalToFloat64(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// IsFinite rejects NaN and ±Inf before they reach decimal conversion,
// which would panic on them.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
