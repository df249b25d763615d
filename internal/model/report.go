package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// Trend is the moving-average alignment of a series.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// Signal is the action suggested by a Trend.
type Signal string

const (
	SignalBuy  Signal = "buy"
	SignalSell Signal = "sell"
	SignalHold Signal = "hold"
)

// Fundamentals is the quote snapshot plus its distance from the 52-week range.
type Fundamentals struct {
	Symbol            string     `json:"symbol"`
	Name              string     `json:"name"`
	Currency          string     `json:"currency"`
	Exchange          string     `json:"exchange"`
	InstrumentType    string     `json:"instrument_type"`
	Price             null.Float `json:"price"`
	PreviousClose     null.Float `json:"previous_close"`
	DayHigh           null.Float `json:"day_high"`
	DayLow            null.Float `json:"day_low"`
	Volume            null.Float `json:"volume"`
	High52Week        null.Float `json:"high_52w"`
	Low52Week         null.Float `json:"low_52w"`
	PctFrom52WeekHigh null.Float `json:"pct_from_52w_high"`
	PctFrom52WeekLow  null.Float `json:"pct_from_52w_low"`
	Position52Week    null.Float `json:"position_52w"` // 0.0 ~ 1.0
}

// YearPerformance aggregates the bars of one calendar year (UTC).
type YearPerformance struct {
	Year        int        `json:"year"`
	Open        null.Float `json:"open"`
	Close       null.Float `json:"close"`
	High        null.Float `json:"high"`
	Low         null.Float `json:"low"`
	AvgClose    null.Float `json:"avg_close"`
	TotalVolume null.Float `json:"total_volume"`
	ReturnPct   null.Float `json:"return_pct"`
	Bars        int        `json:"bars"`
}

// YearlyPerformance lists years newest first.
type YearlyPerformance struct {
	Symbol string            `json:"symbol"`
	Years  []YearPerformance `json:"years"`
}

// KeyRatios combines day change, return and volatility statistics.
type KeyRatios struct {
	Symbol                  string     `json:"symbol"`
	Price                   null.Float `json:"price"`
	PreviousClose           null.Float `json:"previous_close"`
	DayChangePct            null.Float `json:"day_change_pct"`
	High52Week              null.Float `json:"high_52w"`
	Low52Week               null.Float `json:"low_52w"`
	AvgDailyReturnPct       null.Float `json:"avg_daily_return_pct"`
	AnnualizedVolatilityPct null.Float `json:"annualized_volatility_pct"`
	YTDReturnPct            null.Float `json:"ytd_return_pct"`
	TradingDays             int        `json:"trading_days"`
}

// TrendAnalysis reports moving averages, momentum and the resulting trend.
type TrendAnalysis struct {
	Symbol            string     `json:"symbol"`
	CurrentPrice      null.Float `json:"current_price"`
	SMA20             null.Float `json:"sma20"`
	SMA50             null.Float `json:"sma50"`
	SMA100            null.Float `json:"sma100"`
	RSI14             null.Float `json:"rsi14"`
	Momentum5Day      null.Float `json:"momentum_5d"`
	Momentum20Day     null.Float `json:"momentum_20d"`
	High52Week        null.Float `json:"high_52w"`
	PctFrom52WeekHigh null.Float `json:"pct_from_52w_high"`
	Trend             Trend      `json:"trend"`
	Signal            Signal     `json:"signal"`
}

// TrendSnapshot is a stored trend analysis and when it was recorded.
type TrendSnapshot struct {
	RecordedAt time.Time     `json:"recorded_at"`
	Analysis   TrendAnalysis `json:"analysis"`
}
