// Package notification defines the immutable notification record pushed into
// the panel and its message payload.
//
// A Message is a tagged union of plain text, markup text and an opaque rich
// handle owned by the presentation layer.
package notification
