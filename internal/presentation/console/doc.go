// Package console renders the notification panel as text lines on a terminal
// or any other writer.
package console
