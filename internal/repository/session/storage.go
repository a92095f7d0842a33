package session

import (
	"context"
	"errors"
	"sync"

	"github.com/oshokin/notif-panel/internal/config"
)

// Storage defines session-scoped key/value operations.
type Storage interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key.
	Set(ctx context.Context, key, value string) error
	// Close ends the session and discards its values.
	Close(ctx context.Context) error
}

var (
	// ErrNotFound is returned when the key is absent from the session.
	ErrNotFound = errors.New("session value not found")
	// ErrClosed is returned when the session has already ended.
	ErrClosed = errors.New("session closed")
)

// MemoryStorage keeps session values in process memory.
type MemoryStorage struct {
	// values holds the session values by key.
	values map[string]string
	// closed is set once the session has ended.
	closed bool
	// mu protects values and closed.
	mu sync.RWMutex
}

// NewMemoryStorage creates an empty in-process session.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		values: make(map[string]string),
	}
}

// Get returns the value stored under key.
func (s *MemoryStorage) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", ErrClosed
	}

	value, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}

	return value, nil
}

// Set stores value under key.
func (s *MemoryStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.values[key] = value

	return nil
}

// Close discards every value.
func (s *MemoryStorage) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = make(map[string]string)
	s.closed = true

	return nil
}

// Open starts a session on the storage selected by the session settings.
func Open(cfg config.Session) (Storage, error) {
	switch cfg.Backend {
	case config.BackendFile:
		s := NewFileStorage(cfg.File)
		if err := s.Reset(); err != nil {
			return nil, err
		}

		return s, nil
	case config.BackendRedis:
		return NewRedisStorage(cfg.RedisAddress, cfg.TTL), nil
	default:
		return NewMemoryStorage(), nil
	}
}
