package transport

import (
	"errors"
	"fmt"
)

// StatusError is returned when the server answers with a status other than
// 200 or 202. Body holds the raw error body text.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status code %d, body: %s", e.StatusCode, e.Body)
}

// IOError reports a filesystem failure while storing a downloaded asset.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not
// a *StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
