package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DomainError is an error with a stable machine-readable code.
//
// Codes have the form SKV-<AREA>-<NNNN>. NNNN/10 is the HTTP status the
// error maps to, so SKV-KEY-4040 is a 404 and SKV-ARG-4002 a 400.
type DomainError struct {
	Code    string
	Message string
	Details string
	Cause   error
}

// NewDomainError creates a DomainError.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && e.Code == t.Code
}

// WithDetails returns a copy carrying details.
func (e *DomainError) WithDetails(details string) *DomainError {
	c := *e
	c.Details = details
	return &c
}

// WithCause returns a copy wrapping cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	c := *e
	c.Cause = cause
	return &c
}

// Text is the message plus details, as shown to clients.
func (e *DomainError) Text() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Status returns the HTTP status encoded in the code, or 500 when the code
// does not carry one.
func (e *DomainError) Status() int {
	return StatusForCode(e.Code)
}

// StatusForCode decodes the HTTP status from the trailing four digits of
// code.
func StatusForCode(code string) int {
	i := strings.LastIndexByte(code, '-')
	if i < 0 || len(code)-i != 5 {
		return 500
	}
	n, err := strconv.Atoi(code[i+1:])
	if err != nil || n < 1000 || n > 5999 {
		return 500
	}
	return n / 10
}

// AsDomainError returns the DomainError in err's chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// ErrKeyNotFound is the absence marker returned by Get and Delete. It is a
// normal outcome, not a failure.
var ErrKeyNotFound = NewDomainError("SKV-KEY-4040", "key not found")

// Argument errors, raised at the boundary before a request reaches the map.
var (
	ErrMalformedRequest = NewDomainError("SKV-ARG-4000", "malformed request body")
	ErrKeyRequired      = NewDomainError("SKV-ARG-4001", "key is required")
	ErrKeyTooLong       = NewDomainError("SKV-ARG-4002", "key too long")
	ErrValueRequired    = NewDomainError("SKV-ARG-4003", "value is required")
	ErrValueTooLarge    = NewDomainError("SKV-ARG-4004", "value too large")
	ErrBadPattern       = NewDomainError("SKV-ARG-4005", "invalid key pattern")
)

// System errors.
var (
	ErrRateLimited = NewDomainError("SKV-SYS-4290", "too many requests")
	ErrInternal    = NewDomainError("SKV-SYS-5000", "internal server error")
)
