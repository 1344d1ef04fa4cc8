package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Method is a dispatchable request.
//
//sumtype:decl
type Method interface {
	isMethod()
}

// Login asks the server to check a handle and password.
type Login struct {
	Uname string `json:"uname"`
	Pword string `json:"pword"`
}

func (Login) isMethod() {}

// LogValue keeps the password out of log records.
func (l Login) LogValue() slog.Value {
	return slog.GroupValue(slog.String("uname", l.Uname))
}

// Call is the JSON carrier for a Method. A nil Method encodes as null.
type Call struct {
	Method Method
}

func (c Call) MarshalJSON() ([]byte, error) {
	switch m := c.Method.(type) {
	case nil:
		return []byte("null"), nil
	case Login:
		return marshalTagged("Login", m)
	default:
		return nil, fmt.Errorf("api: cannot encode method %T", m)
	}
}

func (c *Call) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		c.Method = nil
		return nil
	}
	tag, body, err := splitTagged(data)
	if err != nil {
		return err
	}
	switch tag {
	case "Login":
		var l Login
		if err := json.Unmarshal(body, &l); err != nil {
			return fmt.Errorf("api: Login: %w", err)
		}
		c.Method = l
		return nil
	default:
		return fmt.Errorf("%w: method %q", ErrUnknownVariant, tag)
	}
}
