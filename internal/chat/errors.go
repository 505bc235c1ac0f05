package chat

import "errors"

var (
	// ErrCompletionProvider indicates the completion provider call
	// failed.
	ErrCompletionProvider = errors.New("completion provider error")

	// ErrInvalidInput indicates a caller-supplied value is unusable,
	// such as a blank question.
	ErrInvalidInput = errors.New("invalid input")
)
