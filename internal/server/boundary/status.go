// Package boundary turns apperr.Error values into what a client sees.
//
// Every exit edge (HTTP handlers, HTTP panic recovery, gRPC interceptors)
// hands its error to a Renderer exactly once. The Renderer is the only place
// an apperr.Error gets logged.
package boundary

import (
	"net/http"

	"google.golang.org/grpc/codes"

	"github.com/dmitrijs2005/keeper/internal/apperr"
)

// StatusOf maps a kind to its HTTP status. The switch has no default branch;
// the exhaustive linter flags any kind added without a row here.
func StatusOf(k apperr.Kind) int {
	switch k {
	case apperr.KindUnauthenticated,
		apperr.KindCredentialsInvalid,
		apperr.KindTokenExpired,
		apperr.KindTokenInvalid:
		return http.StatusUnauthorized
	case apperr.KindUnauthorized:
		return http.StatusForbidden
	case apperr.KindHandleAlreadyExists:
		return http.StatusConflict
	case apperr.KindTokenMalformed,
		apperr.KindProtocolInitInvalidShape,
		apperr.KindProtocolInitTokenInvalidType,
		apperr.KindRequestMalformed:
		return http.StatusBadRequest
	case apperr.KindServerMisconfigured,
		apperr.KindInternalError,
		apperr.KindNotImplemented:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// CodeOf maps a kind to the gRPC code used on the gRPC edge.
func CodeOf(k apperr.Kind) codes.Code {
	if k == apperr.KindNotImplemented {
		return codes.Unimplemented
	}
	switch StatusOf(k) {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusConflict:
		return codes.AlreadyExists
	default:
		return codes.Internal
	}
}

// ErrorEnvelope is the JSON body of every failed HTTP response.
type ErrorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// EnvelopeOf builds the client-facing body. It never includes the detail.
func EnvelopeOf(e apperr.Error) ErrorEnvelope {
	return ErrorEnvelope{Code: e.Code(), Message: e.Error()}
}
