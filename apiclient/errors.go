package apiclient

import (
	"fmt"
)

// RequestError is a call that never produced an HTTP response.
type RequestError struct {
	Endpoint string
	Err      error
}

func (e *RequestError) Error() string {
	return "Network Error"
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
}
