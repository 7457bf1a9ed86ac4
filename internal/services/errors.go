package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrAuthExpired marks an access token the identity provider no longer accepts.
	ErrAuthExpired = errors.New("authorization expired")
	// ErrAuthInvalid marks a token or refresh token that is missing or malformed.
	ErrAuthInvalid = errors.New("authorization invalid")
	// ErrProviderUnavailable marks a search or identity provider failure.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrCacheCorrupt marks persisted cache state that could not be decoded.
	ErrCacheCorrupt = errors.New("cache corrupt")
	// ErrNotFound marks a missing cache entry or resource.
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// RequiresLogin reports whether err means the user must authorize again.
func RequiresLogin(err error) bool {
	return errors.Is(err, ErrAuthExpired) || errors.Is(err, ErrAuthInvalid)
}

// HTTPStatus maps a marker error to the status code the HTTP layer reports.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case RequiresLogin(err):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrProviderUnavailable), errors.Is(err, ErrTimeout):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
