package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the access
// token on outbound requests.
const AccessTokenHeaderName = "access_token"

// RequestIDHeaderName correlates an HTTP request with its log records.
const RequestIDHeaderName = "X-Request-Id"

// ErrorDomain is the ErrorInfo domain on gRPC status errors raised by the
// server.
const ErrorDomain = "keeper"
