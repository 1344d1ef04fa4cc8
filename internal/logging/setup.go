package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SensitiveKeys are attribute keys whose values never reach any sink.
var SensitiveKeys = []string{"password", "pword", "token", "access_token", "secret", "authorization"}

// Options defines parameters for logger creation.
type Options struct {
	Env          string // "dev" switches the console to a short time format
	ConsoleLevel string // default: info
	FileLevel    string // default: debug
	File         string // optional JSON log file, rotated by lumberjack
	App          string

	// Console overrides os.Stdout. Tests point it at a buffer.
	Console io.Writer
}

var closers sync.Map

// New creates a configured slog.Logger.
func New(o Options) *slog.Logger {
	console := o.Console
	if console == nil {
		console = os.Stdout
	}

	timeFormat := time.RFC3339
	if o.Env == "dev" {
		timeFormat = time.Kitchen
	}

	var handlers []slog.Handler

	var consoleHandler slog.Handler = tint.NewHandler(console, &tint.Options{
		Level:      ParseLevel(o.ConsoleLevel, slog.LevelInfo),
		TimeFormat: timeFormat,
		NoColor:    o.Console != nil,
	})
	handlers = append(handlers, NewRedactingHandler(consoleHandler, SensitiveKeys))

	var closer func() error
	if o.File != "" {
		w := &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		closer = w.Close
		var fileHandler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: ParseLevel(o.FileLevel, slog.LevelDebug),
		})
		handlers = append(handlers, NewRedactingHandler(fileHandler, SensitiveKeys))
	}

	var h slog.Handler
	if len(handlers) == 1 {
		h = handlers[0]
	} else {
		h = NewMultiHandler(handlers...)
	}

	l := slog.New(h).With(slog.String("app", o.App), slog.String("env", o.Env))
	if closer != nil {
		closers.Store(l, closer)
	}
	return l
}

// Close releases the file sink of a logger built by New.
func Close(l *slog.Logger) error {
	if c, ok := closers.LoadAndDelete(l); ok {
		return c.(func() error)()
	}
	return nil
}

// ParseLevel maps a level name to slog.Level, falling back to def.
func ParseLevel(s string, def slog.Level) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return def
	}
}
