package calculator

import (
	"math"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"
)

// Round rounds half away from zero to the given number of decimal places.
// Missing, NaN and infinite inputs yield a missing value.
func Round(v null.Float, places int32) null.Float {
	if !v.Valid || math.IsNaN(v.Float64) || math.IsInf(v.Float64, 0) {
		return null.Float{}
	}
	return null.FloatFrom(decimal.NewFromFloat(v.Float64).Round(places).InexactFloat64())
}

// PctChange returns (to-from)/from*100, unrounded.
// Missing when either operand is missing or from is not positive.
func PctChange(from, to null.Float) null.Float {
	if !from.Valid || !to.Valid || from.Float64 <= 0 {
		return null.Float{}
	}
	return null.FloatFrom((to.Float64 - from.Float64) / from.Float64 * 100)
}
