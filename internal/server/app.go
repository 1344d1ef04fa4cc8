// Package server wires the keeper server together: logging, storage,
// migrations, token issuing, and the HTTP and gRPC edges. It also owns
// graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/keeper/internal/apperr"
	"github.com/dmitrijs2005/keeper/internal/cryptox"
	"github.com/dmitrijs2005/keeper/internal/dbx"
	"github.com/dmitrijs2005/keeper/internal/logging"
	"github.com/dmitrijs2005/keeper/internal/server/auth"
	"github.com/dmitrijs2005/keeper/internal/server/boundary"
	"github.com/dmitrijs2005/keeper/internal/server/config"
	"github.com/dmitrijs2005/keeper/internal/server/dispatch"
	"github.com/dmitrijs2005/keeper/internal/server/httpapi"
	"github.com/dmitrijs2005/keeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/keeper/internal/server/services"

	gs "github.com/dmitrijs2005/keeper/internal/server/grpc"
)

type App struct {
	config     *config.Config
	slog       *slog.Logger
	logger     logging.Logger
	renderer   *boundary.Renderer
	db         *sql.DB
	accounts   *services.AccountService
	dispatcher *dispatch.Dispatcher
}

// Option adjusts how NewApp builds the app.
type Option func(*logging.Options)

// WithConsole sends console logs to w instead of stdout.
func WithConsole(w io.Writer) Option {
	return func(o *logging.Options) { o.Console = w }
}

// NewApp builds every dependency the servers need. Setup failures are
// logged once through the renderer and returned.
func NewApp(ctx context.Context, c *config.Config, opts ...Option) (*App, error) {
	lo := logging.Options{
		Env:          c.Env,
		ConsoleLevel: c.LogConsoleLevel,
		FileLevel:    c.LogFileLevel,
		File:         c.LogFile,
		App:          "keeper",
	}
	for _, opt := range opts {
		opt(&lo)
	}
	sl := logging.New(lo)
	logger := logging.NewSlogLogger(sl)
	app := &App{config: c, slog: sl, logger: logger, renderer: boundary.NewRenderer(logger)}

	if err := app.setup(ctx); err != nil {
		e, _ := apperr.Classify(err)
		app.renderer.LogIfNotable(ctx, e)
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (app *App) setup(ctx context.Context) error {
	c := app.config

	db, err := dbx.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return apperr.FromStorage(err)
	}
	app.db = db

	rm, err := repomanager.NewRepositoryManager(c.DatabaseDriver)
	if err != nil {
		return apperr.FromStorage(err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return apperr.FromStorage(err)
	}

	issuer, err := newIssuer(c)
	if err != nil {
		return apperr.Misconfiguredf("token issuer: %v", err)
	}

	app.accounts = services.NewAccountService(db, rm, cryptox.NewHasher(cryptox.DefaultParams), issuer)
	app.dispatcher = dispatch.New(app.accounts)
	return nil
}

func newIssuer(c *config.Config) (*auth.Issuer, error) {
	o := auth.Options{
		Algorithm: c.TokenAlgorithm,
		Secret:    []byte(c.SecretKey),
		TTL:       c.AccessTokenValidityDuration,
		Issuer:    "keeper",
	}
	if c.TokenAlgorithm == auth.AlgHS256 {
		return auth.NewIssuer(o)
	}

	var err error
	if o.PrivateKeyPEM, err = os.ReadFile(c.PrivateKeyFile); err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	if o.PublicKeyPEM, err = os.ReadFile(c.PublicKeyFile); err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	return auth.NewIssuer(o)
}

// Accounts exposes the account service to admin tooling.
func (app *App) Accounts() *services.AccountService { return app.accounts }

// Renderer exposes the error renderer to admin tooling.
func (app *App) Renderer() *boundary.Renderer { return app.renderer }

// Run serves HTTP and gRPC until ctx is cancelled, a termination signal
// arrives, or either server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	if app.config.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	app.logger.Info(ctx, "Starting app...", "http", app.config.EndpointAddrHTTP, "grpc", app.config.EndpointAddrGRPC)

	hs := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.renderer, app.dispatcher, app.accounts, app.db)
	gsrv := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.renderer, app.dispatcher, app.accounts)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	run := func(name string, fn func(context.Context) error) {
		defer wg.Done()
		if err := fn(ctx); err != nil {
			app.logger.Error(ctx, name+" server stopped", "error", err)
			mu.Lock()
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			mu.Unlock()
			cancelFunc()
		}
	}

	wg.Add(2)
	go run("http", hs.Run)
	go run("grpc", gsrv.Run)
	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return errors.Join(errs...)
}

// Close releases the database pool and flushes the log file.
func (app *App) Close() error {
	var errs []error
	if app.db != nil {
		errs = append(errs, app.db.Close())
	}
	errs = append(errs, logging.Close(app.slog))
	return errors.Join(errs...)
}
