package dataverse

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidRecordID is returned when a record id is not a GUID.
var ErrInvalidRecordID = errors.New("record id is not a GUID")

// TransportError wraps failures to reach the service or obtain a token
type TransportError struct {
	Underlying error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Underlying)
}

func (e *TransportError) Unwrap() error {
	return e.Underlying
}

// RequestError is a non-2xx response from the service
type RequestError struct {
	Status int
	Body   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.Status, e.Body)
}

// Message extracts error.message from an OData error body, or "".
func (e *RequestError) Message() string {
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(e.Body), &body); err != nil {
		return ""
	}
	return body.Error.Message
}

// WrapTransportError creates a TransportError from underlying error
func WrapTransportError(err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Underlying: err}
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Status == 404
}
