package calculator

import (
	"time"

	"github.com/guregu/null/v6"

	"MarketLens/internal/model"
)

func linearCloses(from, to float64) []float64 {
	var out []float64
	for v := from; v <= to; v++ {
		out = append(out, v)
	}
	return out
}

func dailySeries(symbol string, closes []float64) *model.PriceSeries {
	start := time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC)
	bars := make([]model.Bar, len(closes))
	for i, c := range closes {
		bars[i] = model.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   null.FloatFrom(c - 0.5),
			High:   null.FloatFrom(c + 1),
			Low:    null.FloatFrom(c - 1),
			Close:  null.FloatFrom(c),
			Volume: null.FloatFrom(1000),
		}
	}
	return &model.PriceSeries{Symbol: symbol, Range: "6mo", Interval: "1d", Meta: model.QuoteSnapshot{Symbol: symbol}, Bars: bars}
}
