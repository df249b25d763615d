package calculator

import (
	"math"

	"github.com/guregu/null/v6"

	"MarketLens/internal/model"
)

// HighLow scans the bars and returns the highest present high and the lowest present low.
func HighLow(bars []model.Bar) (high, low null.Float) {
	h := math.Inf(-1)
	l := math.Inf(1)
	for _, b := range bars {
		if b.High.Valid && b.High.Float64 > h {
			h = b.High.Float64
		}
		if b.Low.Valid && b.Low.Float64 < l {
			l = b.Low.Float64
		}
	}
	if !math.IsInf(h, -1) {
		high = null.FloatFrom(h)
	}
	if !math.IsInf(l, 1) {
		low = null.FloatFrom(l)
	}
	return high, low
}

// Position52Week returns where the current price sits within the 52-week range (0.0~1.0).
func Position52Week(current, high, low null.Float) null.Float {
	if !current.Valid || !high.Valid || !low.Valid || high.Float64 < low.Float64 {
		return null.Float{}
	}
	if high.Float64 == low.Float64 {
		return null.FloatFrom(0.5)
	}
	pos := (current.Float64 - low.Float64) / (high.Float64 - low.Float64)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return Round(null.FloatFrom(pos), 4)
}
