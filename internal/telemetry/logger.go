// Package telemetry provides the process-wide structured logger and the
// scoped section overrides used by the module lifecycle (init/run/finalize).
package telemetry

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors the reporting levels the core recognizes in log_level keys.
type Level int

const (
	Trace Level = iota
	Debug
	Info
	Warn
	Error
	Fatal
)

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case Trace, Debug:
		return zapcore.DebugLevel
	case Warn:
		return zapcore.WarnLevel
	case Error:
		return zapcore.ErrorLevel
	case Fatal:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// LevelFromString parses the log_level configuration value, case-insensitive.
func LevelFromString(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return Trace, true
	case "DEBUG":
		return Debug, true
	case "INFO":
		return Info, true
	case "WARNING", "WARN":
		return Warn, true
	case "ERROR":
		return Error, true
	case "FATAL":
		return Fatal, true
	default:
		return Info, false
	}
}

// Format is the log_format configuration value: plain text or JSON.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// FormatFromString parses the log_format configuration value.
func FormatFromString(s string) (Format, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TEXT", "DEFAULT", "SHORT":
		return FormatText, true
	case "JSON":
		return FormatJSON, true
	default:
		return FormatText, false
	}
}

// Logger wraps a zap.SugaredLogger with a "section" scope, matching the
// Log::setSection behavior of the core: every log line is tagged with the
// currently active module phase (C:/I:/R:/F:<unique name>).
type Logger struct {
	mu      sync.Mutex
	base    *zap.Logger
	level   zap.AtomicLevel
	format  Format
	section string
}

var (
	globalMu     sync.Mutex
	globalLogger = newDefault()
)

func newDefault() *Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(cfg)
	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(os.Stderr)), level)
	return &Logger{
		base:   zap.New(core),
		level:  level,
		format: FormatText,
	}
}

// NewFileLogger builds a Logger writing to the given file path in addition
// to stderr, used when the CLI is given -l <log_file>.
func NewFileLogger(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(cfg)
	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(os.Stderr)), level),
		zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(f)), level),
	)
	return &Logger{base: zap.New(core), level: level, format: FormatText}, nil
}

// Global returns the process-wide logger instance.
func Global() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalLogger
}

// SetGlobal replaces the process-wide logger instance (used by cmd/pixelsim
// after parsing -v / --log-file).
func SetGlobal(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// Section returns a derived logger scoped to the given section name, used
// for C:/I:/R:/F:<unique-name> tags around module lifecycle calls.
func (l *Logger) Section(name string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{
		base:    l.base,
		level:   l.level,
		format:  l.format,
		section: name,
	}
}

// SetLevel adjusts the reporting level in place; returns the previous level
// so the caller can restore it (per-module log_level override semantics).
func (l *Logger) SetLevel(level Level) Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := levelFromZap(l.level.Level())
	l.level.SetLevel(level.zapLevel())
	return prev
}

func levelFromZap(lv zapcore.Level) Level {
	switch lv {
	case zapcore.DebugLevel:
		return Debug
	case zapcore.WarnLevel:
		return Warn
	case zapcore.ErrorLevel:
		return Error
	case zapcore.FatalLevel:
		return Fatal
	default:
		return Info
	}
}

// SetFormat records the format in place and returns the previous value.
// The recorded format does not change the output: every line is written by
// the console encoder the logger was built with.
func (l *Logger) SetFormat(f Format) Format {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.format
	l.format = f
	return prev
}

func (l *Logger) sugar() *zap.SugaredLogger {
	if l.section == "" {
		return l.base.Sugar()
	}
	return l.base.Sugar().With("section", l.section)
}

func (l *Logger) Debug(msg string, kv ...interface{}) { l.sugar().Debugw(msg, kv...) }
func (l *Logger) Info(msg string, kv ...interface{})  { l.sugar().Infow(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...interface{})  { l.sugar().Warnw(msg, kv...) }
func (l *Logger) Error(msg string, kv ...interface{}) { l.sugar().Errorw(msg, kv...) }
func (l *Logger) Fatal(msg string, kv ...interface{}) { l.sugar().Fatalw(msg, kv...) }

// Convenience package-level functions operating on the global logger.
func Debug(msg string, kv ...interface{}) { Global().Debug(msg, kv...) }
func Info(msg string, kv ...interface{})  { Global().Info(msg, kv...) }
func Warn(msg string, kv ...interface{})  { Global().Warn(msg, kv...) }
func Error(msg string, kv ...interface{}) { Global().Error(msg, kv...) }
