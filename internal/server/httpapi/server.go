// Package httpapi is the HTTP edge of the server, built on gin.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/keeper/internal/api"
	"github.com/dmitrijs2005/keeper/internal/logging"
	"github.com/dmitrijs2005/keeper/internal/server/boundary"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, req api.Request) (api.Response, error)
}

type AccountReader interface {
	Authenticate(token string) (string, error)
	Get(ctx context.Context, id string) (api.Account, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

const (
	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

type HTTPServer struct {
	address    string
	logger     logging.Logger
	renderer   *boundary.Renderer
	dispatcher Dispatcher
	accounts   AccountReader
	db         Pinger
	engine     *gin.Engine
}

func NewHTTPServer(addr string, l logging.Logger, r *boundary.Renderer, d Dispatcher, a AccountReader, db Pinger) *HTTPServer {
	s := &HTTPServer{
		address:    addr,
		logger:     l.With("module", "http_server"),
		renderer:   r,
		dispatcher: d,
		accounts:   a,
		db:         db,
	}
	s.engine = s.routes()
	return s
}

func (s *HTTPServer) routes() *gin.Engine {
	e := gin.New()
	e.Use(requestID(), s.accessLog(), s.recovery())

	e.GET("/healthz", s.health)

	v1 := e.Group("/api/v1")
	v1.POST("/rpc", s.rpc)
	v1.GET("/account", s.bearerAuth(), s.account)

	return e
}

// Handler exposes the router, mainly for httptest.
func (s *HTTPServer) Handler() http.Handler { return s.engine }

// Run serves until ctx is done, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())
		if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
