package collector

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrNetwork          = errors.New("network error")
	ErrDataUnavailable  = errors.New("data unavailable")
)

// OpError labels a failure with the operation and symbol it belongs to.
type OpError struct {
	Op     string
	Symbol string
	Err    error
}

func (e *OpError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Symbol, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// opError wraps err for op/symbol. An inner OpError is replaced, not nested.
func opError(op, symbol string, err error) error {
	if err == nil {
		return nil
	}
	var inner *OpError
	if errors.As(err, &inner) {
		err = inner.Err
	}
	return &OpError{Op: op, Symbol: symbol, Err: err}
}
