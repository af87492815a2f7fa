package logging

import "time"

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field { return Field{Key: key, Value: value} }

func Int(key string, value int) Field { return Field{Key: key, Value: value} }

func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }

func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Error records err under "error"; a nil error is recorded as null.
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field { return Field{Key: key, Value: value} }

func Component(name string) Field { return String("component", name) }

// DocumentID identifies the guideline document being converted.
func DocumentID(id string) Field { return String("doc_id", id) }

// Format names an output format (triples, ttl, xlsx, ...).
func Format(f string) Field { return String("format", f) }

func RequestID(id string) Field { return String("request_id", id) }

func Count(n int) Field { return Int("count", n) }

func Latency(d time.Duration) Field { return Duration("latency", d) }

func Path(p string) Field { return String("path", p) }
