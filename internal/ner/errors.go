package ner

import "fmt"

// APICallError represents a failed call to the NER endpoint, either a
// transport failure or a non-success response.
type APICallError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *APICallError) Error() string {
	msg := e.Message
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("NER call failed: %s: %v", msg, e.Cause)
	}
	return fmt.Sprintf("NER call failed: %s", msg)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents a NER response that is not a valid prediction list.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("NER parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("NER parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
