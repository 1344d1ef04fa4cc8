package client

import "errors"

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrNonceMismatch   = errors.New("response nonce does not match request")
	ErrUnexpectedReply = errors.New("unexpected reply")
)
