package pokeapi

import (
	"errors"
	"fmt"
)

var errNoTypes = errors.New("record has no types")

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error %d", e.Code)
}

// DecodeError reports a response body that could not be decoded.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// IsDecodeError reports whether err is a body decoding failure.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
