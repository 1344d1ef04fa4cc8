package grpc

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/keeper/internal/api"
	"github.com/dmitrijs2005/keeper/internal/apperr"
)

func (s *GRPCServer) Call(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	var req api.Request
	if err := json.Unmarshal(in.GetValue(), &req); err != nil {
		return nil, apperr.ErrRequestMalformed
	}

	resp, err := s.dispatcher.Dispatch(ctx, req)
	if err != nil {
		return nil, err
	}
	return encode(resp)
}

func (s *GRPCServer) GetAccount(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BytesValue, error) {
	acc, err := s.accounts.Get(ctx, accountIDFromContext(ctx))
	if err != nil {
		return nil, err
	}
	return encode(acc)
}

// Session authenticates with the token from the init payload, sends one
// event describing the account and then holds the stream open until the
// client leaves or the server stops.
func (s *GRPCServer) Session(in *wrapperspb.BytesValue, stream grpc.ServerStreamingServer[wrapperspb.BytesValue]) error {
	ctx := stream.Context()

	init, err := api.ParseStreamInit(in.GetValue())
	if err != nil {
		return err
	}
	if init.Token == nil {
		return apperr.ErrUnauthenticated
	}

	accountID, err := s.accounts.Authenticate(*init.Token)
	if err != nil {
		return err
	}
	acc, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return err
	}

	event, err := encode(api.SessionEvent{Account: acc})
	if err != nil {
		return err
	}
	if err := stream.Send(event); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-s.stopping:
	}
	return nil
}

func encode(v any) (*wrapperspb.BytesValue, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, apperr.FromError(err)
	}
	return wrapperspb.Bytes(data), nil
}
