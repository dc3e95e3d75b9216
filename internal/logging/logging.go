package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the sugared zap logger shared by the CLI and internal packages.
type Logger struct {
	*zap.SugaredLogger
}

// NewLogger builds a console logger. Verbose switches to debug level with
// caller information.
func NewLogger(verbose bool) *Logger {
	if verbose {
		return NewLoggerWithLevel("debug")
	}
	return NewLoggerWithLevel("info")
}

// NewLoggerWithLevel builds a console logger at the named level. Unknown
// levels fall back to info.
func NewLoggerWithLevel(level string) *Logger {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil || level == "" {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if lvl > zapcore.DebugLevel {
		cfg.DisableCaller = true
	}

	base, err := cfg.Build()
	if err != nil {
		return Nop()
	}
	return &Logger{SugaredLogger: base.Sugar()}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// Sugar exposes the underlying logger for packages that take a
// *zap.SugaredLogger. It is safe to call on a nil Logger.
func (l *Logger) Sugar() *zap.SugaredLogger {
	if l == nil || l.SugaredLogger == nil {
		return zap.NewNop().Sugar()
	}
	return l.SugaredLogger
}
