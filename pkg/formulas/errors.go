package formulas

import "errors"

var (
	// ErrInvalidArgument is returned when an input makes the calculation undefined
	// (non-positive predicted volatility, non-positive trading days, negative leverage cap,
	// significance level outside [0, 1]).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingData is returned when a requested return series is absent
	ErrMissingData = errors.New("missing data")

	// ErrUndefinedResult is returned when the expected shortfall tail is empty,
	// which happens when no finite return is left after dropping missing values.
	ErrUndefinedResult = errors.New("undefined result")
)
