// Package brandwatch provides a client for the Brandwatch social-listening
// REST API: token-based authentication, account-level operations, and
// project-scoped requests. All calls are synchronous and throttled through a
// fixed inter-request delay; the package performs no retries.
package brandwatch

import (
	"errors"
	"fmt"
)

// Sentinel errors. Use errors.Is to check.
var (
	// ErrMissingQuery is returned by the search validators when called
	// without a query — a required-parameter contract checked before any
	// network call.
	ErrMissingQuery = errors.New("brandwatch: query is required")

	// ErrProjectNotFound is wrapped by NotFoundError when a named project
	// is not in the account's project list.
	ErrProjectNotFound = errors.New("brandwatch: project not found")
)

// AuthError means the token endpoint returned no usable access token.
// Errors carries the server's "errors" payload, when present.
type AuthError struct {
	Errors any
}

func (e *AuthError) Error() string {
	if e.Errors == nil {
		return "brandwatch: token endpoint returned no access token"
	}

	return fmt.Sprintf("brandwatch: token endpoint returned no access token: %v", e.Errors)
}

// ValidationError means remote query or rule validation reported errors.
// Errors carries the server's "errors" payload.
type ValidationError struct {
	Errors any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("brandwatch: search validation failed: %v", e.Errors)
}

// NotFoundError identifies the project name that was not found.
// Unwraps to ErrProjectNotFound.
type NotFoundError struct {
	Project string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("brandwatch: project %q not found", e.Project)
}

func (e *NotFoundError) Unwrap() error {
	return ErrProjectNotFound
}

// hasErrors reports whether an "errors" field from a decoded response body
// is truthy: non-nil and not an empty string, collection, zero number, or
// false.
func hasErrors(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
