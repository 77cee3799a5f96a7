package eodhd

import "fmt"

// FetchError is returned when the API answers with a non-200 status code.
type FetchError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching the data from eodhistoricaldata failed with status code %d", e.StatusCode)
}

// ConnectionError is returned when the request could not be built or sent.
type ConnectionError struct {
	// Cause is the underlying transport error.
	Cause error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection to eodhistoricaldata server failed: %v", e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// DeserializeError is returned when the response body does not decode into
// the expected shape.
type DeserializeError struct {
	// Cause is the underlying decoding error.
	Cause error
}

func (e *DeserializeError) Error() string {
	return fmt.Sprintf("deserializing response from eodhistoricaldata failed: %v", e.Cause)
}

func (e *DeserializeError) Unwrap() error {
	return e.Cause
}
