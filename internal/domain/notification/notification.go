package notification

import (
	"errors"
	"fmt"
	"time"

	"github.com/oshokin/notif-panel/internal/domain/severity"
)

// ErrInvalidArgument is returned when a notification lacks a required field.
var ErrInvalidArgument = errors.New("invalid argument")

// Notification is a single entry of the panel. It is never mutated after New.
type Notification struct {
	key       string
	severity  int
	known     severity.Severity
	timestamp time.Time
	message   Message
}

// New validates the fields and builds a notification. The key is mandatory;
// a zero timestamp means the notification has none.
func New(key string, rawSeverity int, timestamp time.Time, message Message) (*Notification, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: notification key is required", ErrInvalidArgument)
	}

	return &Notification{
		key:       key,
		severity:  rawSeverity,
		known:     severity.Closest(rawSeverity),
		timestamp: timestamp,
		message:   message,
	}, nil
}

// Key returns the unique key assigned by the push source.
func (n *Notification) Key() string {
	return n.key
}

// Severity returns the raw severity code as pushed.
func (n *Notification) Severity() int {
	return n.severity
}

// Known returns the severity normalized with severity.Closest.
func (n *Notification) Known() severity.Severity {
	return n.known
}

// Timestamp returns the event time and whether it is set.
func (n *Notification) Timestamp() (time.Time, bool) {
	return n.timestamp, !n.timestamp.IsZero()
}

// Message returns the payload.
func (n *Notification) Message() Message {
	return n.message
}
