package collector

import (
	"fmt"
	"strings"
)

// Range is the lookback window of a chart request.
type Range string

const (
	Range1d  Range = "1d"
	Range5d  Range = "5d"
	Range1mo Range = "1mo"
	Range3mo Range = "3mo"
	Range6mo Range = "6mo"
	Range1y  Range = "1y"
	Range2y  Range = "2y"
	Range5y  Range = "5y"
	Range10y Range = "10y"
	RangeYTD Range = "ytd"
	RangeMax Range = "max"
)

// Interval is the bar size of a chart request.
type Interval string

const (
	Interval1d  Interval = "1d"
	Interval5d  Interval = "5d"
	Interval1wk Interval = "1wk"
	Interval1mo Interval = "1mo"
	Interval3mo Interval = "3mo"
)

var (
	validRanges    = []Range{Range1d, Range5d, Range1mo, Range3mo, Range6mo, Range1y, Range2y, Range5y, Range10y, RangeYTD, RangeMax}
	validIntervals = []Interval{Interval1d, Interval5d, Interval1wk, Interval1mo, Interval3mo}
)

// Validate reports ErrInvalidParameter for values outside the supported set.
func (r Range) Validate() error {
	for _, v := range validRanges {
		if r == v {
			return nil
		}
	}
	return fmt.Errorf("%w: range %q, want one of %s", ErrInvalidParameter, string(r), joinValues(validRanges))
}

// Validate reports ErrInvalidParameter for values outside the supported set.
func (i Interval) Validate() error {
	for _, v := range validIntervals {
		if i == v {
			return nil
		}
	}
	return fmt.Errorf("%w: interval %q, want one of %s", ErrInvalidParameter, string(i), joinValues(validIntervals))
}

// ParseRange converts and validates a user supplied range.
func ParseRange(s string) (Range, error) {
	r := Range(s)
	if err := r.Validate(); err != nil {
		return "", err
	}
	return r, nil
}

// ParseInterval converts and validates a user supplied interval.
func ParseInterval(s string) (Interval, error) {
	i := Interval(s)
	if err := i.Validate(); err != nil {
		return "", err
	}
	return i, nil
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
