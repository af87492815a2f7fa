// Package archive stores a compressed copy of every converted graph and
// its output, on local disk or in an S3 bucket.
package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/golang/snappy"

	"github.com/dd0wney/cluso-guidelines/pkg/config"
)

// ErrNotFound is returned by Get for unknown keys.
var ErrNotFound = errors.New("archive object not found")

// Extension of archived objects: snappy block-compressed JSON.
const Extension = ".json.sz"

// Record is one archived conversion.
type Record struct {
	ID         string          `json:"id"`
	Format     string          `json:"format"`
	DocumentID string          `json:"doc_id"`
	CreatedAt  time.Time       `json:"created_at"`
	Input      json.RawMessage `json:"input"`
	Output     []byte          `json:"output"`
}

// Sink persists records.
type Sink interface {
	// Put stores rec and returns its object key.
	Put(ctx context.Context, rec Record) (string, error)
	Get(ctx context.Context, key string) (Record, error)
	Ping(ctx context.Context) error
}

// Encode serializes and compresses rec.
func Encode(rec Record) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return snappy.Encode(nil, data), nil
}

// Decode reverses Encode.
func Decode(data []byte) (Record, error) {
	var rec Record
	raw, err := snappy.Decode(nil, data)
	if err != nil {
		return rec, fmt.Errorf("failed to decompress record: %w", err)
	}
	if err := json.Unmarshal(raw, &rec); err != nil {
		return rec, fmt.Errorf("failed to decode record: %w", err)
	}
	return rec, nil
}

// ObjectKey places rec under prefix, partitioned by UTC day.
func ObjectKey(prefix string, rec Record) string {
	day := rec.CreatedAt.UTC().Format("2006/01/02")
	return path.Join(strings.TrimPrefix(prefix, "/"), day, rec.ID+Extension)
}

// New builds the sink selected by cfg.Backend.
func New(ctx context.Context, cfg config.ArchiveConfig) (Sink, error) {
	switch cfg.Backend {
	case config.ArchiveFile, "":
		return NewFileSink(cfg.Dir, cfg.Prefix)
	case config.ArchiveS3:
		return NewS3Sink(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Backend)
	}
}
