package domain

import "errors"

var (
	ErrIterationNotFound = errors.New("iteration not found")
	ErrValidation        = errors.New("invalid iteration")
)
