package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the single failure type returned by Client methods.
type Error struct {
	Op         Operation
	StatusCode int    // 0 when the request never got a response
	Message    string // server-supplied message or the operation fallback
	Err        error  // transport or decode error, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// errorBody is the JSON shape of error responses.
type errorBody struct {
	Error string `json:"error"`
}
