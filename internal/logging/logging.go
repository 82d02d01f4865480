// Package logging builds the service logger.
package logging

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the level ("none", "normal", "debug") and the encoder
// ("console", "json").
type Options struct {
	Level  string
	Format string
	// StderrOnly sends every level to stderr, for commands whose stdout
	// carries a protocol.
	StderrOnly bool
}

// New returns a logger writing info and debug to stdout and errors to
// stderr, the way a CLI is expected to split its output.
func New(opts Options) (*zap.Logger, error) {
	var floor zapcore.Level
	switch opts.Level {
	case "none":
		return zap.NewNop(), nil
	case "", "normal":
		floor = zapcore.InfoLevel
	case "debug":
		floor = zapcore.DebugLevel
	default:
		return nil, fmt.Errorf("unknown log level %q", opts.Level)
	}

	var enc zapcore.Encoder
	switch opts.Format {
	case "", "console":
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeCaller = nil
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(ec)
	case "json":
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(ec)
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	low := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return floor <= lvl && lvl < zapcore.ErrorLevel
	})
	high := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})

	out := zapcore.Lock(os.Stdout)
	if opts.StderrOnly {
		out = zapcore.Lock(os.Stderr)
	}
	core := zapcore.NewTee(
		zapcore.NewCore(enc, out, low),
		zapcore.NewCore(enc.Clone(), zapcore.Lock(os.Stderr), high),
	)
	return zap.New(core), nil
}

// RedirectStdLog routes the standard library logger into l and returns a
// function restoring the previous output.
func RedirectStdLog(l *zap.Logger) func() {
	return zap.RedirectStdLog(l.Named("stdlog"))
}

// Requests is a chi middleware logging one line per request.
func Requests(l *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				l.Debug("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("took", time.Since(start)),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
