package domain

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidBatchSize  = errors.New("invalid batch size")
	ErrModelNotAvailable = errors.New("model not available")
)
