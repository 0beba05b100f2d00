package garden

import "errors"

var (
	// ErrUnknownObject is returned when an object ID has no catalog definition.
	ErrUnknownObject = errors.New("garden: unknown object")
	// ErrNotFound is returned when removing an object that is not planted.
	ErrNotFound = errors.New("garden: object not planted")
	// ErrInvalidInput is returned for malformed batch requests.
	ErrInvalidInput = errors.New("garden: invalid input")
)
