package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// QuoteSnapshot is the point-in-time metadata and price block of a chart response.
type QuoteSnapshot struct {
	Symbol           string     `json:"symbol"`
	Currency         string     `json:"currency"`
	ExchangeName     string     `json:"exchange_name"`
	FullExchangeName string     `json:"full_exchange_name"`
	ShortName        string     `json:"short_name"`
	LongName         string     `json:"long_name"`
	InstrumentType   string     `json:"instrument_type"`
	Price            null.Float `json:"price"`
	PreviousClose    null.Float `json:"previous_close"`
	DayHigh          null.Float `json:"day_high"`
	DayLow           null.Float `json:"day_low"`
	Volume           null.Float `json:"volume"`
	High52Week       null.Float `json:"high_52w"`
	Low52Week        null.Float `json:"low_52w"`
}

// DisplayName prefers the long name, then the short name, then the symbol.
func (q *QuoteSnapshot) DisplayName() string {
	switch {
	case q.LongName != "":
		return q.LongName
	case q.ShortName != "":
		return q.ShortName
	default:
		return q.Symbol
	}
}

// Bar is one OHLCV sample. Time is always UTC.
type Bar struct {
	Time     time.Time  `json:"time"`
	Open     null.Float `json:"open"`
	High     null.Float `json:"high"`
	Low      null.Float `json:"low"`
	Close    null.Float `json:"close"`
	Volume   null.Float `json:"volume"`
	AdjClose null.Float `json:"adj_close"`
}

// PriceSeries holds the bars of one chart request, oldest first.
type PriceSeries struct {
	Symbol   string        `json:"symbol"`
	Range    string        `json:"range"`
	Interval string        `json:"interval"`
	Meta     QuoteSnapshot `json:"meta"`
	Bars     []Bar         `json:"bars"`
}

// Closes returns the present close prices in bar order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, 0, len(s.Bars))
	for _, b := range s.Bars {
		if b.Close.Valid {
			closes = append(closes, b.Close.Float64)
		}
	}
	return closes
}

// NewsItem is one headline from the search endpoint.
type NewsItem struct {
	UUID           string    `json:"uuid"`
	Title          string    `json:"title"`
	Publisher      string    `json:"publisher"`
	Link           string    `json:"link"`
	PublishedAt    time.Time `json:"published_at"`
	Type           string    `json:"type"`
	RelatedTickers []string  `json:"related_tickers"`
}
