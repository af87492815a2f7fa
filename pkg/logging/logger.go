// Package logging is the structured JSON logger shared by the service,
// the CLI and the conversion pipeline wrappers.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Logger is a leveled structured logger.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a child logger that adds fields to every entry.
	With(fields ...Field) Logger
	SetLevel(level Level)
	GetLevel() Level
}

// Entry is the JSON shape of one log line.
type Entry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// JSONLogger writes one JSON object per line. Children created with With
// share the writer lock and the level of their parent.
type JSONLogger struct {
	out    *output
	fields []Field
}

type output struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
	now   func() time.Time
}

// NewJSONLogger creates a logger writing to w at the given level.
func NewJSONLogger(w io.Writer, level Level) *JSONLogger {
	return &JSONLogger{out: &output{w: w, level: level, now: time.Now}}
}

func (l *JSONLogger) log(level Level, msg string, fields []Field) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if level < l.out.level {
		return
	}

	entry := Entry{
		Time:    l.out.now().UTC().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}
	if n := len(l.fields) + len(fields); n > 0 {
		entry.Fields = make(map[string]any, n)
		for _, f := range l.fields {
			entry.Fields[f.Key] = f.Value
		}
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(l.out.w, `{"level":"ERROR","msg":"unencodable log entry","error":%q}`+"\n", err.Error())
		return
	}
	data = append(data, '\n')
	_, _ = l.out.w.Write(data)
}

func (l *JSONLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields) }
func (l *JSONLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields) }
func (l *JSONLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields) }
func (l *JSONLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields) }

func (l *JSONLogger) With(fields ...Field) Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &JSONLogger{out: l.out, fields: merged}
}

func (l *JSONLogger) SetLevel(level Level) {
	l.out.mu.Lock()
	l.out.level = level
	l.out.mu.Unlock()
}

func (l *JSONLogger) GetLevel() Level {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	return l.out.level
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (n NopLogger) With(...Field) Logger { return n }
func (NopLogger) SetLevel(Level)         {}
func (NopLogger) GetLevel() Level        { return InfoLevel }

// NewNopLogger returns a logger that discards all output.
func NewNopLogger() Logger { return NopLogger{} }

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger
)

// DefaultLogger returns the process logger. Unless replaced it writes to
// stderr at the level named by LOG_LEVEL.
func DefaultLogger() Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewJSONLogger(os.Stderr, ParseLevel(os.Getenv("LOG_LEVEL")))
	}
	return defaultLogger
}

// SetDefaultLogger replaces the process logger.
func SetDefaultLogger(l Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// TimedOperation logs the latency of an operation when it ends.
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}

// StartTimer begins timing an operation.
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{logger: logger, msg: msg, start: time.Now(), fields: fields}
}

// Elapsed returns the time since the operation started.
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs the operation at info level with its latency.
func (t *TimedOperation) End(fields ...Field) {
	t.logger.Info(t.msg, t.finish(fields)...)
}

// EndError logs the operation at error level with its latency and err.
func (t *TimedOperation) EndError(err error, fields ...Field) {
	t.logger.Error(t.msg, t.finish(append(fields, Error(err)))...)
}

func (t *TimedOperation) finish(extra []Field) []Field {
	out := make([]Field, 0, len(t.fields)+len(extra)+1)
	out = append(out, t.fields...)
	out = append(out, extra...)
	return append(out, Latency(t.Elapsed()))
}
