package log

import (
	"context"
	"io"
	"os"
	"sync"

	cerrors "github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	verrors "github.com/scigolab/varimp/pkg/errors"
)

const (
	// ErrAttrKey is the field name used for the error value itself.
	ErrAttrKey = "error"
	// StacktraceAttrKey is the field name used for the extracted stack trace.
	StacktraceAttrKey = "stacktrace"
	// ComponentAttrKey is the field name used for named loggers.
	ComponentAttrKey = "component"
)

var (
	mu       sync.RWMutex
	output   io.Writer = os.Stderr
	minLevel           = LevelInfo
	root               = newRoot(os.Stderr, LevelInfo)
)

func newRoot(w io.Writer, level Level) zerolog.Logger {
	return zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

func init() {
	// Route library warnings (failed fits, undefined metrics) through the
	// structured logger. Registered here rather than in pkg/errors to avoid
	// a circular import.
	verrors.SetZerologWarnFunc(func(warning error) {
		mu.RLock()
		l := root
		mu.RUnlock()

		ev := l.Warn()
		if marshaler, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev = ev.Object("warning", marshaler)
		}
		ev.Err(warning).Msg("varimp warning")
	})
}

// SetOutput redirects all loggers created by this package to w.
// Intended for tests and for applications that collect logs centrally.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	root = newRoot(w, minLevel)
}

// SetLevel sets the minimum level emitted by loggers from this package.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = level
	root = newRoot(output, level)
}

// GetLogger returns the default logger instance.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &zerologLogger{zl: root}
}

// GetLoggerWithName returns a logger tagged with a component name.
//
// Example:
//
//	logger := log.GetLoggerWithName("importance.driver")
func GetLoggerWithName(name string) Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &zerologLogger{zl: root.With().Str(ComponentAttrKey, name).Logger()}
}

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	zl zerolog.Logger
}

func (z *zerologLogger) Debug(msg string, fields ...any) {
	applyFields(z.zl.Debug(), fields).Msg(msg)
}

func (z *zerologLogger) Info(msg string, fields ...any) {
	applyFields(z.zl.Info(), fields).Msg(msg)
}

func (z *zerologLogger) Warn(msg string, fields ...any) {
	applyFields(z.zl.Warn(), fields).Msg(msg)
}

func (z *zerologLogger) Error(msg string, fields ...any) {
	ev := z.zl.Error()

	// An error passed as the leading field gets structured treatment,
	// including the cockroachdb/errors stack trace when one is attached.
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			if trace := extractStacktrace(err); trace != "" {
				ev = ev.Str(StacktraceAttrKey, trace)
			}
			fields = fields[1:]
		}
	}
	applyFields(ev, fields).Msg(msg)
}

func (z *zerologLogger) With(fields ...any) Logger {
	ctx := z.zl.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{zl: ctx.Logger()}
}

func (z *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= z.zl.GetLevel()
}

func applyFields(ev *zerolog.Event, fields []any) *zerolog.Event {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		case zerolog.LogObjectMarshaler:
			ev = ev.Object(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	return ev
}

func extractStacktrace(err error) string {
	safeDetails := cerrors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
