package calculator

import (
	"github.com/guregu/null/v6"

	"MarketLens/internal/model"
)

// BuildFundamentals derives the 52-week distance figures from a quote.
func BuildFundamentals(q *model.QuoteSnapshot) *model.Fundamentals {
	exchange := q.FullExchangeName
	if exchange == "" {
		exchange = q.ExchangeName
	}
	return &model.Fundamentals{
		Symbol:            q.Symbol,
		Name:              q.DisplayName(),
		Currency:          q.Currency,
		Exchange:          exchange,
		InstrumentType:    q.InstrumentType,
		Price:             q.Price,
		PreviousClose:     q.PreviousClose,
		DayHigh:           q.DayHigh,
		DayLow:            q.DayLow,
		Volume:            q.Volume,
		High52Week:        q.High52Week,
		Low52Week:         q.Low52Week,
		PctFrom52WeekHigh: Round(PctChange(q.High52Week, q.Price), 2),
		PctFrom52WeekLow:  Round(PctChange(q.Low52Week, q.Price), 2),
		Position52Week:    Position52Week(q.Price, q.High52Week, q.Low52Week),
	}
}

// BuildYearly groups a (typically 5y / 1mo) series by calendar year.
func BuildYearly(s *model.PriceSeries) *model.YearlyPerformance {
	return &model.YearlyPerformance{
		Symbol: s.Symbol,
		Years:  GroupByYear(s.Bars),
	}
}

// BuildKeyRatios combines a quote, a daily series for volatility and a
// year-to-date series for the YTD return.
func BuildKeyRatios(q *model.QuoteSnapshot, daily, ytd *model.PriceSeries) *model.KeyRatios {
	returns := DailyReturns(daily.Closes())
	return &model.KeyRatios{
		Symbol:                  q.Symbol,
		Price:                   q.Price,
		PreviousClose:           q.PreviousClose,
		DayChangePct:            Round(PctChange(q.PreviousClose, q.Price), 2),
		High52Week:              q.High52Week,
		Low52Week:               q.Low52Week,
		AvgDailyReturnPct:       AvgReturnPct(returns),
		AnnualizedVolatilityPct: AnnualizedVolatility(returns),
		YTDReturnPct:            YTDReturn(ytd),
		TradingDays:             len(returns),
	}
}

// YTDReturn uses the first present open and the last present close of the series.
func YTDReturn(s *model.PriceSeries) null.Float {
	var first, last null.Float
	for _, b := range s.Bars {
		if b.Open.Valid && !first.Valid {
			first = b.Open
		}
		if b.Close.Valid {
			last = b.Close
		}
	}
	return Round(PctChange(first, last), 2)
}

// BuildTrend computes moving averages, momentum and the trend classification
// from a daily series.
func BuildTrend(s *model.PriceSeries) *model.TrendAnalysis {
	closes := s.Closes()

	price := s.Meta.Price
	if !price.Valid && len(closes) > 0 {
		price = null.FloatFrom(closes[len(closes)-1])
	}

	t := &model.TrendAnalysis{
		Symbol:            s.Symbol,
		CurrentPrice:      price,
		SMA20:             SMA(closes, 20),
		SMA50:             SMA(closes, 50),
		SMA100:            SMA(closes, 100),
		RSI14:             RSI(closes, 14),
		Momentum5Day:      Momentum(closes, 5),
		Momentum20Day:     Momentum(closes, 20),
		High52Week:        s.Meta.High52Week,
		PctFrom52WeekHigh: Round(PctChange(s.Meta.High52Week, price), 2),
	}
	t.Trend, t.Signal = ClassifyTrend(price, t.SMA20, t.SMA50)
	return t
}

// ClassifyTrend maps the price / SMA20 / SMA50 alignment to a trend and signal.
// Bull alignment: price > SMA20 > SMA50. Bear alignment: price < SMA20 < SMA50.
func ClassifyTrend(price, sma20, sma50 null.Float) (model.Trend, model.Signal) {
	if !price.Valid || !sma20.Valid || !sma50.Valid {
		return model.TrendNeutral, model.SignalHold
	}
	p, s20, s50 := price.Float64, sma20.Float64, sma50.Float64
	switch {
	case p > s20 && s20 > s50:
		return model.TrendBullish, model.SignalBuy
	case p < s20 && s20 < s50:
		return model.TrendBearish, model.SignalSell
	default:
		return model.TrendNeutral, model.SignalHold
	}
}
