package panel

import (
	"errors"
	"fmt"

	"github.com/oshokin/notif-panel/internal/domain/notification"
)

// ErrDuplicateKey is returned when a notification key is already in the store.
var ErrDuplicateKey = errors.New("duplicate notification key")

// Store is an ordered collection of notifications keyed by their unique key.
// Index 0 is displayed first.
type Store struct {
	// items holds the notifications in display order.
	items []*notification.Notification
	// index maps keys to notifications.
	index map[string]*notification.Notification
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		index: make(map[string]*notification.Notification),
	}
}

// Add inserts the notification at the front. A key already present is rejected
// with ErrDuplicateKey and the store is left unchanged.
func (s *Store) Add(n *notification.Notification) error {
	if n == nil {
		return fmt.Errorf("%w: notification is nil", notification.ErrInvalidArgument)
	}

	if _, ok := s.index[n.Key()]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, n.Key())
	}

	s.items = append([]*notification.Notification{n}, s.items...)
	s.index[n.Key()] = n

	return nil
}

// ReplaceAll discards the current contents and installs ns in the given order.
// The sequence is validated first, so on error the store is untouched.
func (s *Store) ReplaceAll(ns []*notification.Notification) error {
	index := make(map[string]*notification.Notification, len(ns))

	for i, n := range ns {
		if n == nil {
			return fmt.Errorf("%w: notification #%d is nil", notification.ErrInvalidArgument, i)
		}

		if _, ok := index[n.Key()]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, n.Key())
		}

		index[n.Key()] = n
	}

	s.items = append(make([]*notification.Notification, 0, len(ns)), ns...)
	s.index = index

	return nil
}

// RemoveByKey removes the notification with the key and returns it.
// An absent key is a no-op.
func (s *Store) RemoveByKey(key string) (*notification.Notification, bool) {
	n, ok := s.index[key]
	if !ok {
		return nil, false
	}

	delete(s.index, key)

	for i, item := range s.items {
		if item == n {
			s.items = append(s.items[:i:i], s.items[i+1:]...)

			break
		}
	}

	return n, true
}

// Clear removes every notification.
func (s *Store) Clear() {
	s.items = nil
	s.index = make(map[string]*notification.Notification)
}

// IsEmpty reports whether the store holds no notifications.
func (s *Store) IsEmpty() bool {
	return len(s.items) == 0
}

// Len returns the number of notifications.
func (s *Store) Len() int {
	return len(s.items)
}

// Get returns the notification with the key.
func (s *Store) Get(key string) (*notification.Notification, bool) {
	n, ok := s.index[key]

	return n, ok
}

// List returns a copy of the notifications in display order.
func (s *Store) List() []*notification.Notification {
	return append([]*notification.Notification(nil), s.items...)
}

// Keys returns the keys in display order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.items))
	for _, n := range s.items {
		keys = append(keys, n.Key())
	}

	return keys
}
