package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActiveEdit is returned by edit operations when no stock is being edited
	ErrNoActiveEdit = errors.New("no stock is being edited")

	// ErrEditInProgress is returned when an edit is started while another stock's edit is still active.
	// The active draft must be saved or discarded first.
	ErrEditInProgress = errors.New("another stock is already being edited")

	// ErrUnknownField is returned when a draft field name is not locally editable
	ErrUnknownField = errors.New("unknown stock field")

	// ErrNotInCatalog is returned when a catalog selection names an unknown entry
	ErrNotInCatalog = errors.New("not in the stock catalog")

	// ErrStaleResponse is returned when a response arrives after a newer request for the same entity was issued.
	// The response is discarded and local state is left untouched.
	ErrStaleResponse = errors.New("response superseded by a newer request")

	// ErrStockNotFound is returned when no stock exists for the given id
	ErrStockNotFound = errors.New("stock not found")

	// ErrPriceNotFound is returned when a price provider has no quote for a ticker
	ErrPriceNotFound = errors.New("price not found")

	// ErrRateLimited is returned when the upstream price source refuses a request because of its quota
	ErrRateLimited = errors.New("price source rate limit reached")

	// ErrQuotaExhausted is returned when the local daily request budget for the price source is used up
	ErrQuotaExhausted = errors.New("daily price request quota exhausted")
)

// ValidationError reports a missing or malformed field before a request is issued
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError reports a network failure or a non-2xx HTTP response from a remote API
type TransportError struct {
	Op         string
	Method     string
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s %s returned %d", e.Op, e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FormatError reports a response body that does not have the expected shape
type FormatError struct {
	Op  string
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
