// Package client is the gRPC client for the keeper server.
//
// GRPCClient wraps every call in a request envelope with a fresh nonce,
// checks that the response echoes it, and turns status errors back into
// apperr.Error values using the ErrorInfo the server attaches. Transport
// failures surface as ErrUnavailable.
package client
