// Package dispatch routes a request envelope to the handler for its method
// and wraps the result in a response envelope carrying the same nonce.
package dispatch

import (
	"context"

	"github.com/dmitrijs2005/keeper/internal/api"
	"github.com/dmitrijs2005/keeper/internal/apperr"
)

type AccountHandler interface {
	Login(ctx context.Context, uname, pword string) (api.LoginResult, error)
}

// Dispatcher neither logs nor renders; errors go back to the calling edge.
type Dispatcher struct {
	accounts AccountHandler
}

func New(accounts AccountHandler) *Dispatcher {
	return &Dispatcher{accounts: accounts}
}

// Dispatch runs the request's method. The response nonce is the request
// nonce, also when an error is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, req api.Request) (api.Response, error) {
	res, err := d.call(ctx, req.Payload.Method)
	if err != nil {
		return api.Response{Nonce: req.Nonce}, err
	}
	return api.Response{Nonce: req.Nonce, Payload: api.Reply{Result: res}}, nil
}

func (d *Dispatcher) call(ctx context.Context, m api.Method) (api.Result, error) {
	switch m := m.(type) {
	case api.Login:
		res, err := d.accounts.Login(ctx, m.Uname, m.Pword)
		if err != nil {
			return nil, err
		}
		return api.LoginReply{Result: res}, nil
	case nil:
		// a request without a method is the caller's mistake
		return nil, apperr.ErrRequestMalformed
	}
	return nil, apperr.ErrNotImplemented
}
