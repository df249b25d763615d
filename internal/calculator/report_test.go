package calculator

import (
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/model"
)

func TestBuildFundamentals_PriceAtBothBounds(t *testing.T) {
	q := &model.QuoteSnapshot{
		Symbol:     "FLAT",
		Price:      null.FloatFrom(42),
		High52Week: null.FloatFrom(42),
		Low52Week:  null.FloatFrom(42),
	}
	f := BuildFundamentals(q)
	require.True(t, f.PctFrom52WeekHigh.Valid)
	require.True(t, f.PctFrom52WeekLow.Valid)
	assert.Equal(t, 0.0, f.PctFrom52WeekHigh.Float64)
	assert.Equal(t, 0.0, f.PctFrom52WeekLow.Float64)
	assert.Equal(t, 0.5, f.Position52Week.Float64)
	assert.Equal(t, "FLAT", f.Name)
}

func TestBuildFundamentals_Distances(t *testing.T) {
	q := &model.QuoteSnapshot{
		Symbol:           "AAPL",
		LongName:         "Apple Inc.",
		ExchangeName:     "NMS",
		FullExchangeName: "NasdaqGS",
		Price:            null.FloatFrom(180),
		High52Week:       null.FloatFrom(200),
		Low52Week:        null.FloatFrom(150),
	}
	f := BuildFundamentals(q)
	assert.Equal(t, -10.0, f.PctFrom52WeekHigh.Float64)
	assert.Equal(t, 20.0, f.PctFrom52WeekLow.Float64)
	assert.Equal(t, 0.6, f.Position52Week.Float64)
	assert.Equal(t, "Apple Inc.", f.Name)
	assert.Equal(t, "NasdaqGS", f.Exchange)
}

func TestBuildFundamentals_MissingInputs(t *testing.T) {
	f := BuildFundamentals(&model.QuoteSnapshot{Symbol: "X", Price: null.FloatFrom(10), High52Week: null.FloatFrom(0)})
	assert.False(t, f.PctFrom52WeekHigh.Valid, "zero denominator")
	assert.False(t, f.PctFrom52WeekLow.Valid, "missing low")
	assert.False(t, f.Position52Week.Valid)

	f = BuildFundamentals(&model.QuoteSnapshot{Symbol: "X", High52Week: null.FloatFrom(10), Low52Week: null.FloatFrom(5)})
	assert.False(t, f.PctFrom52WeekHigh.Valid, "missing price")
}

func TestBuildKeyRatios(t *testing.T) {
	q := &model.QuoteSnapshot{
		Symbol:        "KR",
		Price:         null.FloatFrom(110),
		PreviousClose: null.FloatFrom(100),
	}
	daily := dailySeries("KR", []float64{100, 102, 101, 105, 107})
	ytd := &model.PriceSeries{Symbol: "KR", Bars: []model.Bar{
		{Open: null.Float{}, Close: null.FloatFrom(90)},
		{Open: null.FloatFrom(80), Close: null.FloatFrom(95)},
		{Open: null.FloatFrom(95), Close: null.FloatFrom(100)},
		{Open: null.FloatFrom(100), Close: null.Float{}},
	}}

	kr := BuildKeyRatios(q, daily, ytd)
	assert.Equal(t, 10.0, kr.DayChangePct.Float64)
	assert.Equal(t, 32.31, kr.AnnualizedVolatilityPct.Float64)
	assert.Equal(t, 1.7212, kr.AvgDailyReturnPct.Float64)
	assert.Equal(t, 25.0, kr.YTDReturnPct.Float64)
	assert.Equal(t, 4, kr.TradingDays)
}

func TestBuildKeyRatios_ZeroPreviousClose(t *testing.T) {
	q := &model.QuoteSnapshot{Symbol: "Z", Price: null.FloatFrom(5), PreviousClose: null.FloatFrom(0)}
	empty := &model.PriceSeries{Symbol: "Z"}

	kr := BuildKeyRatios(q, empty, empty)
	assert.False(t, kr.DayChangePct.Valid)
	assert.False(t, kr.AnnualizedVolatilityPct.Valid)
	assert.False(t, kr.AvgDailyReturnPct.Valid)
	assert.False(t, kr.YTDReturnPct.Valid)
}

func TestYTDReturn_NonPositiveOpen(t *testing.T) {
	s := &model.PriceSeries{Bars: []model.Bar{
		{Open: null.FloatFrom(0), Close: null.FloatFrom(10)},
		{Open: null.FloatFrom(5), Close: null.FloatFrom(12)},
	}}
	assert.False(t, YTDReturn(s).Valid)
}

func TestBuildTrend_LinearSeries(t *testing.T) {
	s := dailySeries("LIN", linearCloses(100, 120))

	tr := BuildTrend(s)
	assert.Equal(t, 120.0, tr.CurrentPrice.Float64, "falls back to last close")
	assert.Equal(t, 110.5, tr.SMA20.Float64)
	assert.False(t, tr.SMA50.Valid)
	assert.False(t, tr.SMA100.Valid)
	assert.Equal(t, 3.45, tr.Momentum5Day.Float64)
	assert.Equal(t, 18.81, tr.Momentum20Day.Float64)
	assert.Equal(t, model.TrendNeutral, tr.Trend)
	assert.Equal(t, model.SignalHold, tr.Signal)
	assert.False(t, tr.PctFrom52WeekHigh.Valid)
}

func TestBuildTrend_Bullish(t *testing.T) {
	s := dailySeries("UP", linearCloses(1, 120))
	s.Meta.Price = null.FloatFrom(125)
	s.Meta.High52Week = null.FloatFrom(250)

	tr := BuildTrend(s)
	assert.Equal(t, 125.0, tr.CurrentPrice.Float64)
	assert.Equal(t, 110.5, tr.SMA20.Float64)
	assert.Equal(t, 95.5, tr.SMA50.Float64)
	assert.Equal(t, 70.5, tr.SMA100.Float64)
	assert.Equal(t, -50.0, tr.PctFrom52WeekHigh.Float64)
	assert.Equal(t, model.TrendBullish, tr.Trend)
	assert.Equal(t, model.SignalBuy, tr.Signal)
}

func TestBuildTrend_SkipsMissingCloses(t *testing.T) {
	s := dailySeries("GAP", linearCloses(100, 120))
	gap := model.Bar{Time: s.Bars[len(s.Bars)-1].Time.Add(24 * time.Hour)}
	s.Bars = append(s.Bars, gap)

	tr := BuildTrend(s)
	assert.Equal(t, 110.5, tr.SMA20.Float64)
	assert.Equal(t, 3.45, tr.Momentum5Day.Float64)
}

func TestClassifyTrend(t *testing.T) {
	f := null.FloatFrom
	tests := []struct {
		name            string
		price, s20, s50 null.Float
		trend           model.Trend
		signal          model.Signal
	}{
		{"bull", f(110), f(105), f(100), model.TrendBullish, model.SignalBuy},
		{"bear", f(90), f(95), f(100), model.TrendBearish, model.SignalSell},
		{"mixed", f(110), f(95), f(100), model.TrendNeutral, model.SignalHold},
		{"equal", f(100), f(100), f(100), model.TrendNeutral, model.SignalHold},
		{"missing sma50", f(110), f(105), null.Float{}, model.TrendNeutral, model.SignalHold},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trend, signal := ClassifyTrend(tt.price, tt.s20, tt.s50)
			assert.Equal(t, tt.trend, trend)
			assert.Equal(t, tt.signal, signal)
		})
	}
}
