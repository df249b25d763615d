package calculator

import (
	"errors"

	"github.com/guregu/null/v6"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// SMA is CalculateSMA rounded to 2 decimals, missing when the window is not full.
func SMA(closes []float64, period int) null.Float {
	ma, err := CalculateSMA(closes, period)
	if err != nil {
		return null.Float{}
	}
	return Round(null.FloatFrom(ma), 2)
}
