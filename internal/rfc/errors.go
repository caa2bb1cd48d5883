package rfc

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFetchFailed is returned when the RFCs could not be fetched from the remote API
	ErrFetchFailed = errors.New("failed to fetch RFCs")
	// ErrNotFound is returned when an identifier lookup matches no RFC
	ErrNotFound = errors.New("RFC not found")
	// ErrInvalidFilter is returned for unknown filter fields or values
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrCacheUnavailable is returned when the persisted cache cannot be read
	ErrCacheUnavailable = errors.New("RFC cache unavailable")
)

// NotFoundError reports an identifier lookup without a match
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no RFC matches %q", e.Query)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidFilterError reports a filter that names an unknown field, or a field
// with a value outside its allowed set (Value is empty in the first case)
type InvalidFilterError struct {
	Field string
	Value string
	Valid []string
}

func (e *InvalidFilterError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid value %q for filter %q, valid values are: %s", e.Value, e.Field, strings.Join(e.Valid, ", "))
	}
	return fmt.Sprintf("unknown filter %q, valid filters are: %s", e.Field, strings.Join(e.Valid, ", "))
}

func (e *InvalidFilterError) Is(target error) bool {
	return target == ErrInvalidFilter
}
