package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a thin contextual wrapper around zerolog. Each component gets a
// child logger carrying its namespace ("http:blog", "queue:worker") plus any
// default fields; records are written immediately, there is no buffering.
type Logger struct {
	zl      zerolog.Logger
	context string
	fields  map[string]any
}

// New builds the root logger. Debug records are suppressed in production
// unless LOG_LEVEL is explicitly "debug". Outside production the output is
// the human-readable console writer.
func New(context, level string, production bool) *Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	minLevel := zerolog.InfoLevel
	if !production || level == "debug" {
		minLevel = zerolog.DebugLevel
	}
	if level == "warn" {
		minLevel = zerolog.WarnLevel
	}

	var zl zerolog.Logger
	if production {
		zl = zerolog.New(os.Stderr).Level(minLevel).With().Timestamp().Logger()
	} else {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(minLevel).With().Timestamp().Logger()
	}

	return &Logger{zl: zl, context: context}
}

// Child returns a logger namespaced "parent:context" whose default fields are
// the parent's merged with the given ones; the child wins on key collision.
func (l *Logger) Child(context string, fields map[string]any) *Logger {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	name := context
	if l.context != "" {
		name = l.context + ":" + context
	}

	return &Logger{zl: l.zl, context: name, fields: merged}
}

func (l *Logger) Debug(msg string, fields ...map[string]any) {
	l.emit(l.zl.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]any) {
	l.emit(l.zl.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]any) {
	l.emit(l.zl.Warn(), msg, fields)
}

// Error folds the error's message (and cause chain, via zerolog's Err) into
// the record alongside any extra fields.
func (l *Logger) Error(msg string, err error, fields ...map[string]any) {
	l.emit(l.zl.Error().Err(err), msg, fields)
}

// Fatal logs and exits; startup wiring only.
func (l *Logger) Fatal(msg string, err error, fields ...map[string]any) {
	l.emit(l.zl.Fatal().Err(err), msg, fields)
}

// StartTimer returns a func that, when called, logs the elapsed milliseconds
// since StartTimer at debug level.
func (l *Logger) StartTimer(label string) func() {
	start := time.Now()
	return func() {
		l.Debug(label, map[string]any{
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
		})
	}
}

func (l *Logger) emit(ev *zerolog.Event, msg string, fields []map[string]any) {
	if l.context != "" {
		ev = ev.Str("context", l.context)
	}
	if len(l.fields) > 0 {
		ev = ev.Fields(l.fields)
	}
	for _, f := range fields {
		ev = ev.Fields(f)
	}
	ev.Msg(msg)
}
