// Package api holds the wire types shared by the server and its clients:
// the nonce-correlated envelope, the dispatchable methods and their results.
//
// Sum types are sealed interfaces encoded in the externally tagged form,
// e.g. {"Login":{"uname":"alice","pword":"..."}}.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message correlates a request with its response. The server echoes Nonce
// verbatim and never interprets it.
type Message[T any] struct {
	Nonce   uint64 `json:"nonce"`
	Payload T      `json:"payload"`
}

type (
	Request  = Message[Call]
	Response = Message[Reply]
)

var (
	// ErrUnknownVariant is returned when a tagged value names no known variant.
	ErrUnknownVariant = errors.New("api: unknown variant")

	// ErrMissingField is returned when an envelope lacks its nonce or payload.
	ErrMissingField = errors.New("api: missing field")
)

// UnmarshalJSON requires both fields. A null nonce or payload counts as
// missing; without a nonce the response could not be correlated.
func (m *Message[T]) UnmarshalJSON(data []byte) error {
	var raw struct {
		Nonce   *uint64         `json:"nonce"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("api: envelope: %w", err)
	}
	if raw.Nonce == nil {
		return fmt.Errorf("%w: nonce", ErrMissingField)
	}
	if len(raw.Payload) == 0 || isNull(raw.Payload) {
		return fmt.Errorf("%w: payload", ErrMissingField)
	}

	var payload T
	if err := json.Unmarshal(raw.Payload, &payload); err != nil {
		return err
	}
	m.Nonce, m.Payload = *raw.Nonce, payload
	return nil
}

// splitTagged decodes the externally tagged form {"<Tag>": <body>}.
func splitTagged(data []byte) (string, json.RawMessage, error) {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return "", nil, fmt.Errorf("api: tagged value: %w", err)
	}
	if len(m) != 1 {
		return "", nil, fmt.Errorf("api: tagged value must have exactly one tag, got %d", len(m))
	}
	var (
		tag  string
		body json.RawMessage
	)
	for tag, body = range m {
	}
	return tag, body, nil
}

func marshalTagged(tag string, body any) ([]byte, error) {
	return json.Marshal(map[string]any{tag: body})
}

func isNull(data []byte) bool {
	return string(data) == "null"
}
