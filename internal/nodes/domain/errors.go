package domain

import "errors"

var (
	ErrNodeNotFound = errors.New("node not found")
	ErrInvalidState = errors.New("node status forbids requested transition")
	ErrValidation   = errors.New("invalid submission")
)
