package vecmap

import "errors"

var (
	// ErrUnsupportedKey is returned when a key can't be represented as the
	// name of an object entry.
	ErrUnsupportedKey = errors.New("vecmap: unsupported key type")
	// ErrInvalidJSON is returned by Delegate when its input is not valid JSON.
	ErrInvalidJSON = errors.New("vecmap: invalid json")
	// ErrNotObject is returned by Delegate when its input is valid JSON but
	// not an object.
	ErrNotObject = errors.New("vecmap: not a json object")
)
