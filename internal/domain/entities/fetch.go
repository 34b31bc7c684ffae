package entities

import (
	"errors"
	"fmt"
)

// FetchErrorKind classifies why a fetch from the rate provider failed.
type FetchErrorKind int

const (
	NetworkError FetchErrorKind = iota + 1
	BadStatus
	MalformedBody
	EmptyRates
)

func (k FetchErrorKind) String() string {
	switch k {
	case NetworkError:
		return "network_error"
	case BadStatus:
		return "bad_status"
	case MalformedBody:
		return "malformed_body"
	case EmptyRates:
		return "empty_rates"
	default:
		return "unknown"
	}
}

// Errores centinela, uno por tipo, para poder usar errors.Is
var (
	ErrNetwork         = errors.New("rate provider unreachable")
	ErrBadStatus       = errors.New("rate provider returned non-success status")
	ErrMalformedBody   = errors.New("rate provider returned malformed body")
	ErrEmptyRates      = errors.New("rate provider returned no rates")
	ErrNoDataAvailable = errors.New("no exchange rate data available")
)

func (k FetchErrorKind) sentinel() error {
	switch k {
	case NetworkError:
		return ErrNetwork
	case BadStatus:
		return ErrBadStatus
	case MalformedBody:
		return ErrMalformedBody
	case EmptyRates:
		return ErrEmptyRates
	default:
		return errors.New("unknown fetch error")
	}
}

// FetchError is the typed failure half of FetchOutcome.
type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int
	Cause      error
}

// NewFetchError builds a FetchError of the given kind.
func NewFetchError(kind FetchErrorKind, statusCode int, cause error) *FetchError {
	return &FetchError{Kind: kind, StatusCode: statusCode, Cause: cause}
}

func (e *FetchError) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Is lets errors.Is match both the kind sentinel and another FetchError of the same kind.
func (e *FetchError) Is(target error) bool {
	if target == e.Kind.sentinel() {
		return true
	}
	var other *FetchError
	if errors.As(target, &other) {
		return other.Kind == e.Kind
	}
	return false
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// FetchOutcome is either a successful table or a typed failure, never both.
type FetchOutcome struct {
	Table *RateTable
	Err   *FetchError
}

// Success wraps a fetched table.
func Success(table *RateTable) FetchOutcome {
	return FetchOutcome{Table: table}
}

// Failure wraps a fetch failure.
func Failure(kind FetchErrorKind, statusCode int, cause error) FetchOutcome {
	return FetchOutcome{Err: NewFetchError(kind, statusCode, cause)}
}

// OK reports whether the outcome carries a table.
func (o FetchOutcome) OK() bool {
	return o.Err == nil && o.Table != nil
}
