package chat

import "errors"

var (
	// ErrInvalidInput indicates a blank project id or message.
	ErrInvalidInput = errors.New("project id and message are required")
	// ErrUnknownProject indicates the project id is not registered.
	ErrUnknownProject = errors.New("project not found")
)
