package services

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrDestinationNotFound means the hotel provider has no city for the name.
	ErrDestinationNotFound = errors.New("destination not found")
	// ErrHotelProviderUnavailable covers missing credentials and transport failures.
	ErrHotelProviderUnavailable = errors.New("hotel provider unavailable")
	// ErrMalformedOffer marks a provider entry that could not be read as an offer.
	ErrMalformedOffer = errors.New("malformed hotel offer")
)

// FailureKind classifies text-generation failures.
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureAuth
	FailureRateLimited
	FailureUpstream
)

func (k FailureKind) String() string {
	switch k {
	case FailureAuth:
		return "auth_failure"
	case FailureRateLimited:
		return "rate_limited"
	case FailureUpstream:
		return "upstream_error"
	default:
		return "unknown_failure"
	}
}

// HTTPStatus maps the failure to the status returned to API callers.
func (k FailureKind) HTTPStatus() int {
	switch k {
	case FailureAuth:
		return http.StatusUnauthorized
	case FailureRateLimited:
		return http.StatusTooManyRequests
	case FailureUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message is the short client-facing label. Upstream bodies never leave the service.
func (k FailureKind) Message() string {
	switch k {
	case FailureAuth:
		return "Credenciales del proveedor de IA no válidas."
	case FailureRateLimited:
		return "Se ha superado la cuota del proveedor de IA. Inténtalo más tarde."
	case FailureUpstream:
		return "El proveedor de IA devolvió una respuesta no válida."
	default:
		return "Hubo un problema al contactar con la IA."
	}
}

// GenerationError is returned by every Generator implementation.
type GenerationError struct {
	Kind     FailureKind
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s generation failed (%s): %v", e.Provider, e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// FailureKindOf extracts the failure kind from err, FailureUnknown if it
// carries none.
func FailureKindOf(err error) FailureKind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return FailureUnknown
}

func failureFromStatus(status int) FailureKind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return FailureAuth
	case status == http.StatusTooManyRequests:
		return FailureRateLimited
	case status > 0:
		return FailureUpstream
	default:
		return FailureUnknown
	}
}
