// Package apperr defines the closed set of failure conditions the service can
// report to a client, and the one-way adapters that fold subsystem errors
// (tokens, storage, password verification, decoding) into that set.
//
// An Error never carries transport knowledge. Mapping to HTTP or gRPC status
// and the single log emission happen in the boundary package.
package apperr

// Kind is the variant tag of an Error.
//
// The set is closed: every switch over Kind must list all constants and must
// not rely on a default branch. The exhaustive linter enforces this.
type Kind int

const (
	KindUnauthenticated Kind = iota + 1
	KindUnauthorized
	KindCredentialsInvalid
	KindHandleAlreadyExists
	KindTokenMalformed
	KindTokenExpired
	KindTokenInvalid
	KindProtocolInitInvalidShape
	KindProtocolInitTokenInvalidType
	KindServerMisconfigured
	KindInternalError
	KindNotImplemented
	// KindRequestMalformed is raised by transport edges for request bodies
	// that cannot be decoded into an envelope.
	KindRequestMalformed
)

// Kinds lists every variant in declaration order.
var Kinds = []Kind{
	KindUnauthenticated,
	KindUnauthorized,
	KindCredentialsInvalid,
	KindHandleAlreadyExists,
	KindTokenMalformed,
	KindTokenExpired,
	KindTokenInvalid,
	KindProtocolInitInvalidShape,
	KindProtocolInitTokenInvalidType,
	KindServerMisconfigured,
	KindInternalError,
	KindNotImplemented,
	KindRequestMalformed,
}

// String returns the variant name. It is the client-visible error code.
func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "Unauthenticated"
	case KindUnauthorized:
		return "Unauthorized"
	case KindCredentialsInvalid:
		return "CredentialsInvalid"
	case KindHandleAlreadyExists:
		return "HandleAlreadyExists"
	case KindTokenMalformed:
		return "TokenMalformed"
	case KindTokenExpired:
		return "TokenExpired"
	case KindTokenInvalid:
		return "TokenInvalid"
	case KindProtocolInitInvalidShape:
		return "ProtocolInitInvalidShape"
	case KindProtocolInitTokenInvalidType:
		return "ProtocolInitTokenInvalidType"
	case KindServerMisconfigured:
		return "ServerMisconfigured"
	case KindInternalError:
		return "InternalError"
	case KindNotImplemented:
		return "NotImplemented"
	case KindRequestMalformed:
		return "RequestMalformed"
	}
	return "Unknown"
}

// Message returns the fixed, non-sensitive text shown to clients.
func (k Kind) Message() string {
	switch k {
	case KindUnauthenticated:
		return "Unauthenticated"
	case KindUnauthorized:
		return "Unauthorized"
	case KindCredentialsInvalid:
		return "Credentials are invalid"
	case KindHandleAlreadyExists:
		return "Handle already exists"
	case KindTokenMalformed:
		return "Token is malformed"
	case KindTokenExpired:
		return "Token is expired"
	case KindTokenInvalid:
		return "Token is invalid"
	case KindProtocolInitInvalidShape:
		return "Stream init payload must be an object, null, or absent"
	case KindProtocolInitTokenInvalidType:
		return "Stream init `token` must be a string or absent"
	case KindServerMisconfigured:
		return "The server is misconfigured"
	case KindInternalError:
		return "An internal server error occurred"
	case KindNotImplemented:
		return "Feature is not implemented yet"
	case KindRequestMalformed:
		return "Request is malformed"
	}
	return "An internal server error occurred"
}

// CarriesDetail reports whether errors of this kind hold an operator-only
// detail string.
func (k Kind) CarriesDetail() bool {
	return k == KindServerMisconfigured || k == KindInternalError
}

// ParseKind is the inverse of Kind.String. It is used by clients to rebuild
// an Error from a wire code.
func ParseKind(code string) (Kind, bool) {
	for _, k := range Kinds {
		if k.String() == code {
			return k, true
		}
	}
	return 0, false
}
