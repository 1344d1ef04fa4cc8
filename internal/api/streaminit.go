package api

import (
	"bytes"
	"encoding/json"

	"github.com/dmitrijs2005/keeper/internal/apperr"
)

// StreamInit is the optional payload a client sends when it opens a
// streaming session.
type StreamInit struct {
	Token *string
}

// ParseStreamInit validates a raw init payload. An empty payload and null
// are accepted with no token. Anything other than an object is
// ProtocolInitInvalidShape; a token that is present, not null and not a
// string is ProtocolInitTokenInvalidType.
func ParseStreamInit(raw []byte) (StreamInit, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || isNull(raw) {
		return StreamInit{}, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return StreamInit{}, apperr.ErrProtocolInitInvalidShape
	}

	tok, ok := obj["token"]
	if !ok || isNull(tok) {
		return StreamInit{}, nil
	}
	var s string
	if err := json.Unmarshal(tok, &s); err != nil {
		return StreamInit{}, apperr.ErrProtocolInitTokenInvalidType
	}
	return StreamInit{Token: &s}, nil
}

// SessionEvent is pushed to a client on an open session stream.
type SessionEvent struct {
	Account Account `json:"account"`
}
