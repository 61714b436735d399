package domain

import "errors"

// Fault categories for submission failures. Closed set: front ends switch
// on these to decide what the user can do about it.
const (
	FaultAuth       = "auth"
	FaultPermission = "permission"
	FaultRateLimit  = "rate_limit"
	FaultMalformed  = "malformed_request"
	FaultNetwork    = "network"
	FaultUnknown    = "unknown"
)

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// ValidationError is a locally detected rule violation. It never reaches
// the exchange and is never retriable.
type ValidationError struct {
	Field  string // offending field ("side", "quantity", ...)
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) IsRetriable() bool {
	return false
}

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// Fault is a submission failure as reported by (or on the way to) the
// exchange, classified into the closed category set above.
type Fault struct {
	Category string // one of the Fault* constants
	Message  string
	Err      error // underlying transport/API error, may be nil
}

func (f *Fault) Error() string {
	return f.Category + ": " + f.Message
}

// IsRetriable reports whether the caller may sensibly try again.
// Rate limits clear with backoff and network blips are transient;
// bad credentials and malformed requests do not fix themselves.
func (f *Fault) IsRetriable() bool {
	return f.Category == FaultRateLimit || f.Category == FaultNetwork
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// NewFault creates a classified submission fault.
func NewFault(category, message string, err error) *Fault {
	return &Fault{Category: category, Message: message, Err: err}
}

var (
	// ErrConfigNotFound is returned when the configuration file is missing
	ErrConfigNotFound = errors.New("configuration not found")

	// ErrMissingCredentials is returned when no API key/secret could be
	// found in the environment, .env file, or config.
	ErrMissingCredentials = errors.New("api credentials missing")

	// ErrMainnetRefused is returned when the configured base URL does not
	// point at the testnet. Only testnet trading is supported.
	ErrMainnetRefused = errors.New("only testnet trading is supported")
)
