package api

import (
	"encoding/json"
	"fmt"
)

// Account is the public view of an account. It never holds credentials.
type Account struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

// LoginResult is the outcome of a Login call.
//
//sumtype:decl
type LoginResult interface {
	isLoginResult()
}

// LoginSuccess encodes as {"Success":{"id":..,"name":..}}.
type LoginSuccess struct {
	Account Account
}

// LoginFailed encodes as "Failed". It does not say why.
type LoginFailed struct{}

func (LoginSuccess) isLoginResult() {}
func (LoginFailed) isLoginResult()  {}

func (s LoginSuccess) MarshalJSON() ([]byte, error) {
	return marshalTagged("Success", s.Account)
}

func (LoginFailed) MarshalJSON() ([]byte, error) {
	return []byte(`"Failed"`), nil
}

func decodeLoginResult(data []byte) (LoginResult, error) {
	var unit string
	if err := json.Unmarshal(data, &unit); err == nil {
		if unit == "Failed" {
			return LoginFailed{}, nil
		}
		return nil, fmt.Errorf("%w: login result %q", ErrUnknownVariant, unit)
	}

	tag, body, err := splitTagged(data)
	if err != nil {
		return nil, err
	}
	if tag != "Success" {
		return nil, fmt.Errorf("%w: login result %q", ErrUnknownVariant, tag)
	}
	var acc Account
	if err := json.Unmarshal(body, &acc); err != nil {
		return nil, fmt.Errorf("api: Success: %w", err)
	}
	return LoginSuccess{Account: acc}, nil
}

// Result is the outcome of any Method, tagged with the method name.
//
//sumtype:decl
type Result interface {
	isResult()
}

// LoginReply carries the result of a Login call.
type LoginReply struct {
	Result LoginResult
}

func (LoginReply) isResult() {}

// Reply is the JSON carrier for a Result.
type Reply struct {
	Result Result
}

func (r Reply) MarshalJSON() ([]byte, error) {
	switch res := r.Result.(type) {
	case nil:
		return []byte("null"), nil
	case LoginReply:
		return marshalTagged("Login", res.Result)
	default:
		return nil, fmt.Errorf("api: cannot encode result %T", res)
	}
}

func (r *Reply) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		r.Result = nil
		return nil
	}
	tag, body, err := splitTagged(data)
	if err != nil {
		return err
	}
	switch tag {
	case "Login":
		lr, err := decodeLoginResult(body)
		if err != nil {
			return err
		}
		r.Result = LoginReply{Result: lr}
		return nil
	default:
		return fmt.Errorf("%w: result %q", ErrUnknownVariant, tag)
	}
}
