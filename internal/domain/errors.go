package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidPrompt   = errors.New("invalid prompt")
	ErrInvalidPreset   = errors.New("invalid preset")
	ErrConflict        = errors.New("already exists")
	ErrProviderFailure = errors.New("provider failure")
)
