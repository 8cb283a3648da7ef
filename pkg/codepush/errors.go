package codepush

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the normalized failure shape every operation returns: a
// human-readable message plus the backend HTTP status code (or the local
// code for failures raised before any network call).
type Error struct {
	Message    string `json:"message"    yaml:"message"`
	StatusCode int    `json:"statusCode" yaml:"statusCode"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Status codes the client distinguishes. GatewayTimeout doubles as the
// default classification for network-level failures that never produced an
// HTTP response.
const (
	StatusUnauthorized        = http.StatusUnauthorized
	StatusNotFound            = http.StatusNotFound
	StatusConflict            = http.StatusConflict
	StatusInternalServerError = http.StatusInternalServerError
	StatusGatewayTimeout      = http.StatusGatewayTimeout
)

// NewError builds a normalized error for the given status.
func NewError(message string, statusCode int) *Error {
	return &Error{Message: message, StatusCode: statusCode}
}

// Conflictf builds a validation error carrying the backend's conflict code,
// raised locally without a network round trip.
func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), StatusCode: StatusConflict}
}

// ErrDeprecatedMethod is returned by operations the token model superseded.
// They fail fast with a not-found status and never touch the network.
var ErrDeprecatedMethod = &Error{Message: "Method is deprecated", StatusCode: StatusNotFound}

// Static errors for construction-time misuse.
var (
	ErrConfigRequired    = errors.New("config is required")
	ErrServerURLRequired = errors.New("server URL is required")
	ErrAccessKeyRequired = errors.New("access key is required")
)

func statusIs(err error, statusCode int) bool {
	cpErr := &Error{}
	if errors.As(err, &cpErr) {
		return cpErr.StatusCode == statusCode
	}

	return false
}

// IsUnauthorized reports whether the error carries the unauthorized status.
func IsUnauthorized(err error) bool {
	return statusIs(err, StatusUnauthorized)
}

// IsNotFound reports whether the error carries the not-found status.
func IsNotFound(err error) bool {
	return statusIs(err, StatusNotFound)
}

// IsConflict reports whether the error carries the conflict status, which
// covers both backend duplicates and local validation failures.
func IsConflict(err error) bool {
	return statusIs(err, StatusConflict)
}

// IsInternalServerError reports whether the error carries the internal
// server error status.
func IsInternalServerError(err error) bool {
	return statusIs(err, StatusInternalServerError)
}

// IsGatewayTimeout reports whether the error carries the gateway-timeout
// status used for network-level failures with no HTTP response.
func IsGatewayTimeout(err error) bool {
	return statusIs(err, StatusGatewayTimeout)
}
