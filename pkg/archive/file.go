package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileSink writes records below a local directory.
type FileSink struct {
	dir    string
	prefix string
}

// NewFileSink creates dir if needed.
func NewFileSink(dir, prefix string) (*FileSink, error) {
	if dir == "" {
		return nil, errors.New("archive directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &FileSink{dir: dir, prefix: prefix}, nil
}

// Put writes rec atomically via a temporary file and rename.
func (s *FileSink) Put(ctx context.Context, rec Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := Encode(rec)
	if err != nil {
		return "", err
	}

	key := ObjectKey(s.prefix, rec)
	target, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".archive-*")
	if err != nil {
		return "", fmt.Errorf("failed to create archive file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close archive file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("failed to commit archive file: %w", err)
	}
	return key, nil
}

// Get reads the record stored under key.
func (s *FileSink) Get(ctx context.Context, key string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	target, err := s.resolve(key)
	if err != nil {
		return Record{}, err
	}
	data, err := os.ReadFile(target)
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to read archive file: %w", err)
	}
	return Decode(data)
}

// Ping checks that the directory is still present.
func (s *FileSink) Ping(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}

// resolve maps key onto a path inside the sink directory.
func (s *FileSink) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid archive key %q", key)
	}
	return filepath.Join(s.dir, clean), nil
}
