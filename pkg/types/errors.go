package types

import "errors"

// Domain errors for type validation
var (
	ErrInvalidSymbol = errors.New("invalid symbol")
	ErrDuplicateID   = errors.New("duplicate symbol ID")
)
