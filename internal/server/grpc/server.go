// Package grpc is the gRPC edge of the server. Errors leave through the
// unary and stream error interceptors, which render each one exactly once.
package grpc

import (
	"context"
	"net"
	"sync"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/keeper/internal/api"
	"github.com/dmitrijs2005/keeper/internal/logging"
	pb "github.com/dmitrijs2005/keeper/internal/proto"
	"github.com/dmitrijs2005/keeper/internal/server/boundary"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, req api.Request) (api.Response, error)
}

type AccountService interface {
	Authenticate(token string) (string, error)
	Get(ctx context.Context, id string) (api.Account, error)
}

type GRPCServer struct {
	address    string
	logger     logging.Logger
	renderer   *boundary.Renderer
	dispatcher Dispatcher
	accounts   AccountService

	// stopping is closed when the server begins a graceful stop so open
	// sessions can return.
	stopping chan struct{}
	stopOnce sync.Once
}

func NewGRPCServer(addr string, l logging.Logger, r *boundary.Renderer, d Dispatcher, a AccountService) *GRPCServer {
	return &GRPCServer{
		address:    addr,
		logger:     l.With("module", "grpc_server"),
		renderer:   r,
		dispatcher: d,
		accounts:   a,
		stopping:   make(chan struct{}),
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.errorInterceptor, s.recoveryInterceptor, s.accessTokenInterceptor),
		grpc.ChainStreamInterceptor(s.errorStreamInterceptor, s.recoveryStreamInterceptor),
	)
	srv.RegisterService(&pb.KeeperServiceDesc, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is done.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.stopOnce.Do(func() { close(s.stopping) })
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	return srv.Serve(listen)
}
