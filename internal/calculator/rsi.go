package calculator

import (
	"errors"

	"github.com/guregu/null/v6"
)

// CalculateRSI computes the Wilder-smoothed RSI over the given period.
// Requires at least period+1 closes.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period+1 {
		return 0, errors.New("not enough data for RSI calculation")
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	switch {
	case avgGain == 0 && avgLoss == 0:
		return 50.0, nil
	case avgLoss == 0:
		return 100.0, nil
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}

// RSI is CalculateRSI rounded to 2 decimals, missing when data is insufficient.
func RSI(closes []float64, period int) null.Float {
	rsi, err := CalculateRSI(closes, period)
	if err != nil {
		return null.Float{}
	}
	return Round(null.FloatFrom(rsi), 2)
}
