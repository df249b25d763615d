package calculator

import (
	"math"

	"github.com/guregu/null/v6"
)

// TradingDaysPerYear scales daily volatility to an annual figure.
const TradingDaysPerYear = 252

// Momentum is the percentage change of the last close against the k-th close
// from the end of the window. Needs at least k+1 closes.
func Momentum(closes []float64, k int) null.Float {
	if k <= 0 || len(closes) < k+1 {
		return null.Float{}
	}
	n := len(closes)
	return Round(PctChange(null.FloatFrom(closes[n-k]), null.FloatFrom(closes[n-1])), 2)
}

// DailyReturns returns (c[i]-c[i-1])/c[i-1] for each consecutive pair with a positive prior close.
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if prev <= 0 {
			continue
		}
		returns = append(returns, (closes[i]-prev)/prev)
	}
	return returns
}

// AvgReturnPct is the arithmetic mean of the returns as a percentage, 4 decimals.
func AvgReturnPct(returns []float64) null.Float {
	if len(returns) == 0 {
		return null.Float{}
	}
	return Round(null.FloatFrom(mean(returns)*100), 4)
}

// AnnualizedVolatility is the sample standard deviation of daily returns
// times sqrt(252), as a percentage with 2 decimals. Needs at least two returns.
func AnnualizedVolatility(returns []float64) null.Float {
	n := len(returns)
	if n < 2 {
		return null.Float{}
	}
	m := mean(returns)
	var ss float64
	for _, r := range returns {
		ss += (r - m) * (r - m)
	}
	std := math.Sqrt(ss / float64(n-1))
	return Round(null.FloatFrom(std*math.Sqrt(TradingDaysPerYear)*100), 2)
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
