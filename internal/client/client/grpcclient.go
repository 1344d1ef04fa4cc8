package client

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/keeper/internal/api"
	"github.com/dmitrijs2005/keeper/internal/apperr"
	"github.com/dmitrijs2005/keeper/internal/common"
	pb "github.com/dmitrijs2005/keeper/internal/proto"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.KeeperClient
	accessToken string
	nonce       func() uint64
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func NewKeeperClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, nonce: rand.Uint64}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = pb.NewKeeperClient(conn)
	return c, nil
}

// SetAccessToken sets the token sent with authenticated calls.
func (s *GRPCClient) SetAccessToken(token string) { s.accessToken = token }

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// Login sends a Login call. A wrong handle or password is LoginFailed, not
// an error.
func (s *GRPCClient) Login(ctx context.Context, uname, pword string) (api.LoginResult, error) {
	resp, err := s.call(ctx, api.Login{Uname: uname, Pword: pword})
	if err != nil {
		return nil, err
	}
	reply, ok := resp.Payload.Result.(api.LoginReply)
	if !ok || reply.Result == nil {
		return nil, fmt.Errorf("%w: %T", ErrUnexpectedReply, resp.Payload.Result)
	}
	return reply.Result, nil
}

func (s *GRPCClient) call(ctx context.Context, m api.Method) (api.Response, error) {
	req := api.Request{Nonce: s.nonce(), Payload: api.Call{Method: m}}
	data, err := json.Marshal(req)
	if err != nil {
		return api.Response{}, err
	}

	out, err := s.client.Call(ctx, wrapperspb.Bytes(data))
	if err != nil {
		return api.Response{}, s.mapError(err)
	}

	var resp api.Response
	if err := json.Unmarshal(out.GetValue(), &resp); err != nil {
		return api.Response{}, fmt.Errorf("%w: %v", ErrUnexpectedReply, err)
	}
	if resp.Nonce != req.Nonce {
		return api.Response{}, fmt.Errorf("%w: sent %d, got %d", ErrNonceMismatch, req.Nonce, resp.Nonce)
	}
	return resp, nil
}

// Account returns the account named by the access token.
func (s *GRPCClient) Account(ctx context.Context) (api.Account, error) {
	out, err := s.client.GetAccount(ctx, &emptypb.Empty{})
	if err != nil {
		return api.Account{}, s.mapError(err)
	}
	var acc api.Account
	if err := json.Unmarshal(out.GetValue(), &acc); err != nil {
		return api.Account{}, fmt.Errorf("%w: %v", ErrUnexpectedReply, err)
	}
	return acc, nil
}

// Session opens a session stream with the access token and returns the
// first event. The stream stays open on the server until ctx is cancelled.
func (s *GRPCClient) Session(ctx context.Context) (api.SessionEvent, error) {
	payload, err := json.Marshal(map[string]string{"token": s.accessToken})
	if err != nil {
		return api.SessionEvent{}, err
	}

	stream, err := s.client.Session(ctx, wrapperspb.Bytes(payload))
	if err != nil {
		return api.SessionEvent{}, s.mapError(err)
	}
	msg, err := stream.Recv()
	if err != nil {
		return api.SessionEvent{}, s.mapError(err)
	}

	var ev api.SessionEvent
	if err := json.Unmarshal(msg.GetValue(), &ev); err != nil {
		return api.SessionEvent{}, fmt.Errorf("%w: %v", ErrUnexpectedReply, err)
	}
	return ev, nil
}

// mapError turns a status error into the apperr.Error the server rendered.
// Statuses without the server's ErrorInfo are transport problems.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	for _, d := range st.Details() {
		info, ok := d.(*errdetails.ErrorInfo)
		if !ok || info.GetDomain() != common.ErrorDomain {
			continue
		}
		if k, ok := apperr.ParseKind(info.GetReason()); ok {
			return apperr.New(k)
		}
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
