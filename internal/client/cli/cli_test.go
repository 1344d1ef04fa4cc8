package cli

import (
	"bufio"
	"bytes"
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/keeper/internal/logging"
	"github.com/dmitrijs2005/keeper/internal/server"
	"github.com/dmitrijs2005/keeper/internal/server/boundary"
	"github.com/dmitrijs2005/keeper/internal/server/config"
	"github.com/dmitrijs2005/keeper/internal/server/dispatch"
	keepergrpc "github.com/dmitrijs2005/keeper/internal/server/grpc"
)

type result struct {
	code int
	out  string
	err  string
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Run(context.Background(), args, strings.NewReader(stdin), &out, &errOut)
	return result{code: code, out: out.String(), err: errOut.String()}
}

func tempDSN(t *testing.T) string {
	t.Helper()
	return "file:" + filepath.Join(t.TempDir(), "keeper.db")
}

func TestRun_Usage(t *testing.T) {
	for _, args := range [][]string{nil, {"account"}, {"frobnicate"}, {"token", "revoke"}} {
		r := run(t, "", args...)
		assert.Equal(t, ExitUsage, r.code, "args %v", args)
		assert.Contains(t, r.err, "usage:")
	}
}

func TestRun_Version(t *testing.T) {
	r := run(t, "", "version")
	assert.Equal(t, ExitOK, r.code)
	assert.Contains(t, r.out, "Build version:")
}

func TestRun_BadFlag(t *testing.T) {
	r := run(t, "", "token", "issue", "-handle")
	assert.Equal(t, ExitUsage, r.code)
}

func TestRun_AccountAddAndTokenIssue(t *testing.T) {
	dsn := tempDSN(t)

	r := run(t, "s3cret\n", "account", "add", "-handle", "alice", "-display-name", "Alice", "-d", dsn)
	require.Equal(t, ExitOK, r.code, r.err)
	assert.Contains(t, r.out, "created account")
	assert.Contains(t, r.out, "(alice)")
	assert.NotContains(t, r.out, "s3cret")

	r = run(t, "", "token", "issue", "-handle", "alice", "-d", dsn)
	require.Equal(t, ExitOK, r.code, r.err)
	lines := strings.Split(strings.TrimSpace(r.out), "\n")
	require.Len(t, lines, 1, "stdout must hold only the token")
	assert.Len(t, strings.Split(lines[0], "."), 3)

	r = run(t, "other\n", "account", "add", "-handle", "alice", "-d", dsn)
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.err, "error:")
}

func TestRun_TokenIssueUnknownHandle(t *testing.T) {
	r := run(t, "", "token", "issue", "-handle", "ghost", "-d", tempDSN(t))
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.err, "error:")
}

func TestRun_PromptsForHandle(t *testing.T) {
	r := run(t, "bob\npw\n", "account", "add", "-d", tempDSN(t))
	require.Equal(t, ExitOK, r.code, r.err)
	assert.Contains(t, r.out, "Enter handle")
	assert.Contains(t, r.out, "(bob)")
}

func TestRun_LoginUnavailable(t *testing.T) {
	r := run(t, "pw\n", "login", "-server", "127.0.0.1:1", "-handle", "alice")
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.err, "server unavailable")
}

func TestRun_Login(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = ":memory:"
	app, err := server.NewApp(ctx, cfg, server.WithConsole(&bytes.Buffer{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	_, err = app.Accounts().Create(ctx, "alice", nil, "s3cret")
	require.NoError(t, err)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	l := logging.Nop{}
	gs := keepergrpc.NewGRPCServer(lis.Addr().String(), l, boundary.NewRenderer(l), dispatch.New(app.Accounts()), app.Accounts())
	done := make(chan error, 1)
	go func() { done <- gs.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	r := run(t, "s3cret\n", "login", "-server", lis.Addr().String(), "-handle", "alice")
	require.Equal(t, ExitOK, r.code, r.err)
	assert.Contains(t, r.out, "logged in: id=")
	assert.Contains(t, r.out, "name=-")

	r = run(t, "wrong\n", "login", "-server", lis.Addr().String(), "-handle", "alice")
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.err, "error:")
}

func TestGetPassword_NonTerminal(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("hunter2\n")
	pw, err := GetPassword(in, bufio.NewReader(in), &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter2"), pw)
	assert.Equal(t, "Enter password: ", out.String())
}

func TestGetSimpleText_EOFWithoutNewline(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(bufio.NewReader(strings.NewReader("  alice ")), "Enter handle", &out)
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
	assert.Equal(t, "Enter handle\n> ", out.String())
}

func TestSplitCommand(t *testing.T) {
	words, rest := splitCommand([]string{"account", "add", "-handle", "x", "-d", "dsn"})
	assert.Equal(t, []string{"account", "add"}, words)
	assert.Equal(t, []string{"-handle", "x", "-d", "dsn"}, rest)

	words, rest = splitCommand([]string{"version"})
	assert.Equal(t, []string{"version"}, words)
	assert.Nil(t, rest)
}

func TestWipe(t *testing.T) {
	b := []byte("secret")
	wipe(b)
	assert.Equal(t, make([]byte, 6), b)
}
