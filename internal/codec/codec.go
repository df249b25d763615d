// Package codec converts result records to and from their serialized form.
package codec

import (
	"encoding/json"
	"fmt"
)

// Format selects how a result is handed to the caller.
type Format string

const (
	// FormatRecord returns the Go value itself.
	FormatRecord Format = "record"
	// FormatJSON returns the value serialized as JSON text.
	FormatJSON Format = "json"
	// FormatText returns the caller supplied human rendering.
	FormatText Format = "text"
)

// ParseFormat accepts "record", "json", "text" or an empty string (record).
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatRecord:
		return FormatRecord, nil
	case FormatJSON, FormatText:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// Marshal serializes v as indented JSON. Missing values become null.
func Marshal(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}
	return data, nil
}

// Unmarshal parses data produced by Marshal. null fields come back missing.
func Unmarshal[T any](data []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unmarshal %T: %w", v, err)
	}
	return &v, nil
}

// Shape returns v unchanged in record mode, its JSON text in json mode and
// the result of text in text mode. Shaping never computes metrics.
func Shape(v any, f Format, text func() string) (any, error) {
	switch f {
	case FormatRecord, "":
		return v, nil
	case FormatJSON:
		data, err := Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	case FormatText:
		if text == nil {
			return nil, fmt.Errorf("no text rendering for %T", v)
		}
		return text(), nil
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
}
