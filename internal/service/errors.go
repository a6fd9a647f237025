package service

import "errors"

var (
	ErrNoFile         = errors.New("no file selected")
	ErrBackend        = errors.New("analysis backend failed")
	ErrInvalidPayload = errors.New("analysis payload is not a JSON object")
	ErrInvalidToken   = errors.New("invalid or expired token")
)
