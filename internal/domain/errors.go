package domain

import (
	"errors"
	"fmt"
)

// ErrorKind tags the failure classes the engine and its collaborators report.
// Callers branch on kinds via KindOf, never on error strings.
type ErrorKind uint8

const (
	// KindUnknown is the zero value for errors that carry no kind.
	KindUnknown ErrorKind = iota

	// KindProviderUnavailable covers an unreachable quote provider, a timed
	// out call, or a response that failed to parse.
	KindProviderUnavailable

	// KindInvalidPoolData flags a pool record missing an expected field.
	KindInvalidPoolData

	// KindTokenNotInPool flags a reserve lookup for a mint on neither side
	// of the pool. A usage error, not a data error.
	KindTokenNotInPool

	// KindInsufficientHistory means fewer than two history entries fall in
	// the requested window.
	KindInsufficientHistory

	// KindRouteUnavailable is reserved for collaborators; route search itself
	// returns an empty list rather than an error when no path exists.
	KindRouteUnavailable

	// KindSecurityViolation and KindSwapExpired belong to the execution
	// layer stacked on top of a computed route. They are declared here so
	// that layer reports through the same taxonomy.
	KindSecurityViolation
	KindSwapExpired
)

func (k ErrorKind) String() string {
	switch k {
	case KindProviderUnavailable:
		return "provider_unavailable"
	case KindInvalidPoolData:
		return "invalid_pool_data"
	case KindTokenNotInPool:
		return "token_not_in_pool"
	case KindInsufficientHistory:
		return "insufficient_history"
	case KindRouteUnavailable:
		return "route_unavailable"
	case KindSecurityViolation:
		return "security_violation"
	case KindSwapExpired:
		return "swap_expired"
	default:
		return "unknown"
	}
}

// Error is a kinded error. It wraps an optional cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Errorf builds a kinded error with a formatted message.
func Errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a kind to an underlying cause.
func WrapError(kind ErrorKind, cause error, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// KindOf extracts the kind from err's chain, KindUnknown when untagged.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
