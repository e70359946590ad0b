package model

import "errors"

var (
	ErrInvalidSampleCount    = errors.New("sample count must be at least 1")
	ErrDegenerateTrainingSet = errors.New("degenerate training set")
	ErrInvalidParams         = errors.New("invalid forest parameters")
	ErrDimensionMismatch     = errors.New("feature matrix and labels differ in length")
)
