package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/notif-panel/internal/config"
)

// FileStorage keeps session values in a JSON file on disk. The file lives from
// Reset to Close, so other processes reading the same path see the values
// while the session runs.
// JSON is produced and consumed via protojson over a google.protobuf.Struct.
type FileStorage struct {
	// path is the filesystem location of the session file.
	path string
	// closed is set once the session has ended.
	closed bool
	// mu protects concurrent access to the session file.
	mu sync.Mutex
}

// NewFileStorage creates a storage that reads/writes JSON at the provided path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{
		path: filepath.Clean(path),
	}
}

// Get reads the session file and returns the value stored under key.
func (s *FileStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrClosed
	}

	values, err := s.load()
	if err != nil {
		return "", err
	}

	value, ok := values.GetFields()[key]
	if !ok {
		return "", ErrNotFound
	}

	return value.GetStringValue(), nil
}

// Set rewrites the session file with value stored under key.
func (s *FileStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	values, err := s.load()
	if err != nil {
		return err
	}

	values.Fields[key] = structpb.NewStringValue(value)

	data, err := protojson.MarshalOptions{Indent: "  "}.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	if err = os.WriteFile(s.path, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}

	return nil
}

// Reset starts a new session by dropping a file left over from a session
// that never reached Close.
func (s *FileStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale session file: %w", err)
	}

	s.closed = false

	return nil
}

// Close ends the session by removing the file.
func (s *FileStorage) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}

	return nil
}

// load decodes the session file. A missing file is an empty session.
func (s *FileStorage) load() (*structpb.Struct, error) {
	values := &structpb.Struct{Fields: make(map[string]*structpb.Value)}

	contents, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, nil
		}

		return nil, fmt.Errorf("read session file: %w", err)
	}

	if err = protojson.Unmarshal(contents, values); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}

	if values.Fields == nil {
		values.Fields = make(map[string]*structpb.Value)
	}

	return values, nil
}
