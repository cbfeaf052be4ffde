package advance

import "errors"

var (
	ErrAdvanceNotFound   = errors.New("advance not found")
	ErrAdvanceExceedsCap = errors.New("advance exceeds half of the basic salary")
	ErrNegativeAdvance   = errors.New("advance amount cannot be negative")
	ErrAdvanceNotActive  = errors.New("only active advances can be edited")
	ErrInvalidTransition = errors.New("invalid advance status transition")
	ErrInvalidStatus     = errors.New("invalid advance status")
)
