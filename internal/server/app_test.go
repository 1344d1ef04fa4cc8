package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/keeper/internal/api"
	"github.com/dmitrijs2005/keeper/internal/apperr"
	"github.com/dmitrijs2005/keeper/internal/server/config"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDSN = ":memory:"
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.LogConsoleLevel = "error"
	return c
}

func TestNewApp_LoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	app, err := NewApp(ctx, testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	name := "Alice"
	_, err = app.Accounts().Create(ctx, "alice", &name, "s3cret")
	require.NoError(t, err)

	res, err := app.Accounts().Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	ok, isSuccess := res.(api.LoginSuccess)
	require.True(t, isSuccess, "got %T", res)
	require.NotNil(t, ok.Account.Name)
	assert.Equal(t, "Alice", *ok.Account.Name)

	res, err = app.Accounts().Login(ctx, "alice", "wrong")
	require.NoError(t, err)
	assert.Equal(t, api.LoginFailed{}, res)
}

func TestNewApp_StorageFailureIsMisconfigured(t *testing.T) {
	c := testConfig()
	c.DatabaseDriver = "mysql"

	_, err := NewApp(context.Background(), c)
	require.Error(t, err)

	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindServerMisconfigured, e.Kind())
}

func TestNewApp_MissingKeyFile(t *testing.T) {
	c := testConfig()
	c.TokenAlgorithm = "RS256"
	c.PrivateKeyFile = "/nonexistent/priv.pem"
	c.PublicKeyFile = "/nonexistent/pub.pem"

	_, err := NewApp(context.Background(), c)
	assert.ErrorIs(t, err, apperr.ErrServerMisconfigured)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestApp_RunFailsOnBadAddress(t *testing.T) {
	c := testConfig()
	c.EndpointAddrGRPC = "256.0.0.1:1"

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after listen failure")
	}
}
