package grpc

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/keeper/internal/apperr"
	"github.com/dmitrijs2005/keeper/internal/common"
	pb "github.com/dmitrijs2005/keeper/internal/proto"
)

type ctxKey string

const accountIDKey ctxKey = "accountID"

func accountIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(accountIDKey).(string)
	return id
}

// render is the single exit point for errors on this edge.
func (s *GRPCServer) render(ctx context.Context, method string, err error) error {
	if _, ok := apperr.As(err); !ok {
		if ctx.Err() != nil {
			return status.FromContextError(ctx.Err()).Err()
		}
		if clientGone(err) {
			return err
		}
		var decErr *pb.DecodeError
		if errors.As(err, &decErr) {
			s.logger.Debug(ctx, "request decode failed", "method", decErr.Method, "error", decErr.Err.Error())
			err = apperr.ErrRequestMalformed
		}
	}
	return s.renderer.With("method", method).Status(ctx, err)
}

// clientGone reports transport statuses caused by the peer going away. They
// are not application failures.
func clientGone(err error) bool {
	st, ok := status.FromError(err)
	if !ok {
		return false
	}
	return st.Code() == codes.Canceled || st.Code() == codes.DeadlineExceeded
}

func (s *GRPCServer) errorInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		return nil, s.render(ctx, info.FullMethod, err)
	}
	return resp, nil
}

func (s *GRPCServer) errorStreamInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	if err := handler(srv, ss); err != nil {
		return s.render(ss.Context(), info.FullMethod, err)
	}
	return nil
}

// recoveryInterceptor turns a handler panic into InternalError. It runs
// inside errorInterceptor, which renders the result.
func (s *GRPCServer) recoveryInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			resp, err = nil, panicError(rec)
		}
	}()
	return handler(ctx, req)
}

func (s *GRPCServer) recoveryStreamInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = panicError(rec)
		}
	}()
	return handler(srv, ss)
}

func panicError(rec any) error {
	return apperr.Internal(fmt.Sprintf("panic: %v\n%s", rec, debug.Stack()))
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if info.FullMethod == pb.KeeperGetAccountFullMethod {
		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, apperr.ErrUnauthenticated
		}

		accountID, err := s.accounts.Authenticate(accessToken)
		if err != nil {
			return nil, err
		}

		ctx = context.WithValue(ctx, accountIDKey, accountID)
	}

	return handler(ctx, req)
}
