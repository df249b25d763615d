package calculator

import (
	"sort"

	"github.com/guregu/null/v6"

	"MarketLens/internal/model"
)

// GroupByYear aggregates bars by UTC calendar year, newest year first.
func GroupByYear(bars []model.Bar) []model.YearPerformance {
	byYear := make(map[int][]model.Bar)
	for _, b := range bars {
		y := b.Time.UTC().Year()
		byYear[y] = append(byYear[y], b)
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	out := make([]model.YearPerformance, 0, len(years))
	for _, y := range years {
		out = append(out, aggregateYear(y, byYear[y]))
	}
	return out
}

func aggregateYear(year int, bars []model.Bar) model.YearPerformance {
	yp := model.YearPerformance{Year: year, Bars: len(bars)}

	var closeSum, volumeSum float64
	var closeCount, volumeCount int
	for _, b := range bars {
		if b.Open.Valid && !yp.Open.Valid {
			yp.Open = b.Open
		}
		if b.Close.Valid {
			yp.Close = b.Close
			closeSum += b.Close.Float64
			closeCount++
		}
		if b.Volume.Valid {
			volumeSum += b.Volume.Float64
			volumeCount++
		}
	}
	yp.High, yp.Low = HighLow(bars)
	if closeCount > 0 {
		yp.AvgClose = Round(null.FloatFrom(closeSum/float64(closeCount)), 2)
	}
	if volumeCount > 0 {
		yp.TotalVolume = null.FloatFrom(volumeSum)
	}
	yp.ReturnPct = Round(PctChange(yp.Open, yp.Close), 2)
	return yp
}
