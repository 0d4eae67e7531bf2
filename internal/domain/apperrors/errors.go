// Package apperrors defines the error taxonomy shared by the fetch, client and series layers.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Input and lookup errors.
var (
	// ErrInvalidDate indicates a date token that is neither "latest" nor YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidCurrency indicates an empty or malformed currency code.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrInvalidPreset indicates a time range preset with negative counts or more than one granularity.
	ErrInvalidPreset = errors.New("invalid time range preset")

	// ErrRateUnavailable indicates the rate document has no rate for the target currency.
	ErrRateUnavailable = errors.New("rate not available")

	// ErrInvalidLanguage indicates a language tag with no supported match.
	ErrInvalidLanguage = errors.New("unsupported language")

	// ErrInvalidAmount indicates an amount that is empty, non-numeric or negative.
	ErrInvalidAmount = errors.New("invalid amount")

	ErrSessionNotFound = errors.New("session not found")
)

// TransportError is a failure at a single endpoint: network error, non-2xx status or an
// unparsable body. It is recovered by falling back to the mirror.
type TransportError struct {
	URL        string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request to %s failed (%d): %s", e.URL, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request to %s failed: %s", e.URL, e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NotFound reports whether the endpoint answered 404, the expected "no data for this date" case.
func (e *TransportError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// Status returns the HTTP status, or a placeholder when the request never got a response.
func (e *TransportError) Status() string {
	if e.StatusCode == 0 {
		return "no response"
	}
	return fmt.Sprintf("%d", e.StatusCode)
}

// MalformedResponseError is a response that parsed as JSON but lacks expected fields. Not retried.
type MalformedResponseError struct {
	Resource string
	Date     string
	Reason   string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response for %s on %s: %s", e.Resource, e.Date, e.Reason)
}

// DataUnavailableError means both the primary and fallback endpoints failed.
type DataUnavailableError struct {
	Resource string
	Date     string
	Primary  error
	Fallback error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("data for %s on %s unavailable. Primary failed (%s): %v. Fallback failed (%s): %v",
		e.Resource, e.Date, statusOf(e.Primary), e.Primary, statusOf(e.Fallback), e.Fallback)
}

func (e *DataUnavailableError) Unwrap() []error {
	return []error{e.Primary, e.Fallback}
}

// NotFound reports whether both endpoints answered 404.
func (e *DataUnavailableError) NotFound() bool {
	var primary, fallback *TransportError
	return errors.As(e.Primary, &primary) && primary.NotFound() &&
		errors.As(e.Fallback, &fallback) && fallback.NotFound()
}

// NoDataError means a historical series request yielded zero usable points.
type NoDataError struct {
	Base   string
	Target string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no historical data found for %s to %s", e.Base, e.Target)
}

func statusOf(err error) string {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Status()
	}
	return "unknown"
}
