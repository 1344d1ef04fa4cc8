package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	logFile := filepath.Join(t.TempDir(), "keeper.log")

	l := New(Options{
		Env:          "prod",
		ConsoleLevel: "info",
		FileLevel:    "debug",
		File:         logFile,
		App:          "keeper-test",
		Console:      &console,
	})

	l.Debug("debug message")
	l.Info("info message", "password", "hunter2")
	require.NoError(t, Close(l))

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	file := string(content)

	assert.Contains(t, file, "debug message")
	assert.Contains(t, file, "info message")
	assert.Contains(t, file, `"level":"DEBUG"`)
	assert.Contains(t, file, `"app":"keeper-test"`)
	assert.NotContains(t, file, "hunter2")

	out := console.String()
	assert.NotContains(t, out, "debug message")
	assert.Contains(t, out, "info message")
	assert.NotContains(t, out, "hunter2")

	assert.NoError(t, Close(l), "second close is a no-op")
}

func TestRedactingHandler_NestedGroups(t *testing.T) {
	var buf bytes.Buffer
	h := NewRedactingHandler(slog.NewTextHandler(&buf, nil), []string{"Token"})
	l := slog.New(h).With("token", "abc")

	l.Info("login", slog.Group("req", slog.String("token", "xyz"), slog.String("uname", "alice")))

	out := buf.String()
	assert.NotContains(t, out, "abc")
	assert.NotContains(t, out, "xyz")
	assert.Contains(t, out, "req.uname=alice")
	assert.Equal(t, 2, strings.Count(out, redacted))
}

type credentials struct {
	uname, pword string
}

func (c credentials) LogValue() slog.Value {
	return slog.GroupValue(slog.String("uname", c.uname), slog.String("password", c.pword))
}

func TestRedactingHandler_LogValuerGroups(t *testing.T) {
	var buf bytes.Buffer
	h := NewRedactingHandler(slog.NewTextHandler(&buf, nil), []string{"password"})
	l := slog.New(h).With("bound", credentials{uname: "bob", pword: "hunter2"})

	l.Info("login", "creds", credentials{uname: "alice", pword: "s3cret"})

	out := buf.String()
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "s3cret")
	assert.Contains(t, out, "creds.uname=alice")
	assert.Contains(t, out, "bound.uname=bob")
	assert.Equal(t, 2, strings.Count(out, redacted))
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG", slog.LevelInfo))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning", slog.LevelInfo))
	assert.Equal(t, slog.LevelError, ParseLevel("error", slog.LevelInfo))
	assert.Equal(t, slog.LevelInfo, ParseLevel("", slog.LevelInfo))
	assert.Equal(t, slog.LevelDebug, ParseLevel("loud", slog.LevelDebug))
}
