package archive

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-guidelines/pkg/config"
)

func testRecord() Record {
	return Record{
		ID:         "0b6c1d7e-1f7a-4a43-9a56-5d1c6b0f4c11",
		Format:     "ttl",
		DocumentID: "doc-1",
		CreatedAt:  time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Input:      json.RawMessage(`{"doc":{"id":"doc-1"},"nodes":[],"links":[]}`),
		Output:     []byte("@prefix ex: <http://example.org/ontology#> ."),
	}
}

func TestEncodeDecode(t *testing.T) {
	rec := testRecord()
	data, err := Encode(rec)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.JSONEq(t, string(rec.Input), string(got.Input))
	assert.Equal(t, rec.Output, got.Output)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
}

func TestDecode_Corrupt(t *testing.T) {
	_, err := Decode([]byte("definitely not snappy"))
	assert.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	rec := testRecord()
	assert.Equal(t, "conversions/2026/03/14/"+rec.ID+Extension, ObjectKey("conversions/", rec))
	assert.Equal(t, "2026/03/14/"+rec.ID+Extension, ObjectKey("", rec))
	assert.Equal(t, "x/2026/03/14/"+rec.ID+Extension, ObjectKey("/x", rec))
}

func TestFileSink_PutGet(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir, "conversions")
	require.NoError(t, err)
	require.NoError(t, sink.Ping(context.Background()))

	rec := testRecord()
	key, err := sink.Put(context.Background(), rec)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)

	got, err := sink.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, rec.DocumentID, got.DocumentID)

	entries, err := os.ReadDir(filepath.Dir(filepath.Join(dir, filepath.FromSlash(key))))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestFileSink_Errors(t *testing.T) {
	sink, err := NewFileSink(t.TempDir(), "")
	require.NoError(t, err)

	_, err = sink.Get(context.Background(), "2026/01/01/missing"+Extension)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = sink.Get(context.Background(), "../../etc/passwd")
	assert.Error(t, err)

	_, err = NewFileSink("", "")
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = sink.Put(ctx, testRecord())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_Backends(t *testing.T) {
	sink, err := New(context.Background(), config.ArchiveConfig{Backend: config.ArchiveFile, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileSink{}, sink)

	_, err = New(context.Background(), config.ArchiveConfig{Backend: "tape"})
	assert.Error(t, err)

	_, err = New(context.Background(), config.ArchiveConfig{Backend: config.ArchiveS3})
	assert.Error(t, err, "bucket is required")
}

// fakeS3 is a minimal path-style S3 endpoint holding objects in memory.
type fakeS3 struct {
	mu      sync.Mutex
	bucket  string
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	bucket, key, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if bucket != f.bucket {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `<Error><Code>NoSuchBucket</Code><Message>no bucket</Message></Error>`)
		return
	}

	switch {
	case r.Method == http.MethodHead && key == "":
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", "application/x-snappy")
		_, _ = w.Write(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3Sink_AgainstFakeEndpoint(t *testing.T) {
	fake := &fakeS3{bucket: "guidelines", objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	cfg := config.ArchiveConfig{
		Backend:         config.ArchiveS3,
		Bucket:          "guidelines",
		Prefix:          "conversions/",
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
		UsePathStyle:    true,
	}
	sink, err := New(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, sink.Ping(context.Background()))

	rec := testRecord()
	key, err := sink.Put(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, ObjectKey("conversions/", rec), key)

	fake.mu.Lock()
	stored := fake.objects[key]
	fake.mu.Unlock()
	decoded, err := Decode(stored)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, decoded.ID)

	got, err := sink.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, rec.Output, got.Output)

	_, err = sink.Get(context.Background(), "conversions/missing"+Extension)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}
