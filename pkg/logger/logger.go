package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Logger is a zerolog wrapper. Error events, and warnings when enabled, are
// also handed to an optional LogCollector.
type Logger struct {
	zl          zerolog.Logger
	collector   *LogCollector
	collectWarn bool
}

type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	Output     string // stdout, stderr or a file path
	TimeFormat string
}

// Frames between the caller and zerolog's Msg: Info/Warn/... then emit.
const callerSkip = 4

func New(cfg *Config) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	var out io.Writer
	switch cfg.Output {
	case "", "stdout":
		out = os.Stdout
	case "stderr":
		out = os.Stderr
	default:
		f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("could not open log file: %w", err)
		}
		out = f
	}

	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = time.RFC3339Nano
	}
	zerolog.TimeFieldFormat = timeFormat
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: timeFormat}
	}

	zl := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", "macropull").
		CallerWithSkipFrameCount(callerSkip).
		Logger()
	return &Logger{zl: zl}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// With returns a child logger carrying fields on every event. The child
// shares the parent's collector.
func (l *Logger) With(fields ...Field) *Logger {
	ctx := l.zl.With()
	for _, f := range fields {
		ctx = ctx.Interface(f.Key, f.value())
	}
	return &Logger{zl: ctx.Logger(), collector: l.collector, collectWarn: l.collectWarn}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.emit(l.zl.Debug(), "", msg, fields) }

func (l *Logger) Info(msg string, fields ...Field) { l.emit(l.zl.Info(), "", msg, fields) }

func (l *Logger) Warn(msg string, fields ...Field) {
	level := ""
	if l.collectWarn {
		level = "warn"
	}
	l.emit(l.zl.Warn(), level, msg, fields)
}

func (l *Logger) Error(msg string, fields ...Field) { l.emit(l.zl.Error(), "error", msg, fields) }

// emit writes the event and, when collectLevel is set, forwards it to the
// collector.
func (l *Logger) emit(ev *zerolog.Event, collectLevel, msg string, fields []Field) {
	for _, f := range fields {
		f.addTo(ev)
	}
	ev.Msg(msg)

	if collectLevel == "" || l.collector == nil {
		return
	}
	caller := "unknown"
	if _, file, line, ok := runtime.Caller(2); ok {
		caller = fmt.Sprintf("%s/%s:%d", filepath.Base(filepath.Dir(file)), filepath.Base(file), line)
	}
	m := make(map[string]interface{}, len(fields))
	for _, f := range fields {
		m[f.Key] = f.value()
	}
	l.collector.AddLog(collectLevel, msg, m, caller)
}

// AddCollector replaces the current collector, flushing the old one.
func (l *Logger) AddCollector(config *CollectionConfig) {
	if l.collector != nil {
		l.collector.Close()
	}
	l.collector = NewLogCollector(config)
	l.collectWarn = config.IncludeWarn
}

// RemoveCollector flushes and detaches the collector.
func (l *Logger) RemoveCollector() {
	if l.collector != nil {
		l.collector.Close()
		l.collector = nil
	}
}

type fieldKind uint8

const (
	kindString fieldKind = iota
	kindInt
	kindBool
	kindDuration
	kindError
)

// Field is a typed key/value pair attached to a log event.
type Field struct {
	Key  string
	kind fieldKind
	str  string
	num  int64
	err  error
}

func (f Field) addTo(ev *zerolog.Event) {
	switch f.kind {
	case kindString:
		ev.Str(f.Key, f.str)
	case kindInt:
		ev.Int64(f.Key, f.num)
	case kindBool:
		ev.Bool(f.Key, f.num != 0)
	case kindDuration:
		ev.Dur(f.Key, time.Duration(f.num))
	case kindError:
		if f.err != nil {
			ev.AnErr(f.Key, f.err)
		}
	}
}

// value is the JSON-friendly form shipped to the collector.
func (f Field) value() interface{} {
	switch f.kind {
	case kindString:
		return f.str
	case kindInt:
		return f.num
	case kindBool:
		return f.num != 0
	case kindDuration:
		return time.Duration(f.num).Milliseconds()
	case kindError:
		if f.err != nil {
			return f.err.Error()
		}
	}
	return nil
}

func String(key, value string) Field { return Field{Key: key, kind: kindString, str: value} }

func Int(key string, value int) Field { return Field{Key: key, kind: kindInt, num: int64(value)} }

func Bool(key string, value bool) Field {
	f := Field{Key: key, kind: kindBool}
	if value {
		f.num = 1
	}
	return f
}

// Duration logs d in zerolog's duration unit (milliseconds by default).
func Duration(key string, d time.Duration) Field {
	return Field{Key: key, kind: kindDuration, num: int64(d)}
}

func Error(err error) Field { return Field{Key: "error", kind: kindError, err: err} }
