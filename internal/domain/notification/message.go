package notification

import "fmt"

// Format tags the representation of a message payload.
type Format int

// Message formats.
const (
	// PlainText is rendered verbatim.
	PlainText Format = iota
	// MarkupText contains presentation markup.
	MarkupText
	// RichHandle wraps an element prepared by the presentation layer.
	RichHandle
)

// String returns the format name used on the wire.
func (f Format) String() string {
	switch f {
	case PlainText:
		return "plain"
	case MarkupText:
		return "markup"
	case RichHandle:
		return "rich"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// ParseFormat converts a wire name into a Format. Rich handles never cross the
// wire, so only "plain" (or empty) and "markup" are accepted.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "plain":
		return PlainText, nil
	case "markup":
		return MarkupText, nil
	default:
		return PlainText, fmt.Errorf("%w: unsupported message format %q", ErrInvalidArgument, s)
	}
}

// Message is the payload of a notification. The zero value is an empty plain text.
type Message struct {
	format Format
	text   string
	handle any
}

// Plain returns a plain text message.
func Plain(text string) Message {
	return Message{format: PlainText, text: text}
}

// Markup returns a markup text message.
func Markup(text string) Message {
	return Message{format: MarkupText, text: text}
}

// Rich returns a message wrapping an opaque presentation element.
func Rich(handle any) Message {
	return Message{format: RichHandle, handle: handle}
}

// Format returns the representation tag.
func (m Message) Format() Format {
	return m.format
}

// Text returns the text of a plain or markup message.
func (m Message) Text() string {
	return m.text
}

// Handle returns the element of a rich message.
func (m Message) Handle() any {
	return m.handle
}

// IsEmpty reports whether the message carries nothing to display.
func (m Message) IsEmpty() bool {
	if m.format == RichHandle {
		return m.handle == nil
	}

	return m.text == ""
}
