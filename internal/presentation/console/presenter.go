package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/term"

	"github.com/oshokin/notif-panel/internal/domain/alarm"
	"github.com/oshokin/notif-panel/internal/domain/notification"
	"github.com/oshokin/notif-panel/internal/domain/severity"
	"github.com/oshokin/notif-panel/internal/panel"
)

// TimestampLayout is the layout of notification timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorCyan   = "\x1b[36m"
	colorGray   = "\x1b[90m"
)

// Presenter writes panel events as lines. It is safe for concurrent use.
type Presenter struct {
	// out receives the rendered lines.
	out io.Writer
	// color enables ANSI colors.
	color bool
	// phrases are the user-facing texts.
	phrases panel.Phrases
	// empty remembers the last empty state to print it only on change.
	empty *bool
	// mu serializes writes.
	mu sync.Mutex
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithColor forces ANSI colors on or off.
func WithColor(color bool) Option {
	return func(p *Presenter) {
		p.color = color
	}
}

// New creates a presenter writing to out. Colors are enabled when out is a terminal.
func New(out io.Writer, opts ...Option) *Presenter {
	p := &Presenter{
		out:     out,
		color:   isTerminal(out),
		phrases: panel.DefaultPhrases(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Prepare stores the phrases.
func (p *Presenter) Prepare(phrases panel.Phrases) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.phrases = phrases
}

// Show announces the panel.
func (p *Presenter) Show(animate bool) {
	if animate {
		p.emit(colorGray, "panel slides in")

		return
	}

	p.emit(colorGray, "panel shown")
}

// Hide announces the panel is hidden.
func (p *Presenter) Hide() {
	p.emit(colorGray, "panel hidden")
}

// DisplayAlarm prints the bell state.
func (p *Presenter) DisplayAlarm(state alarm.State) {
	p.emit(stateColor(state), "bell: "+state.String())
}

// Prepend prints a new notification.
func (p *Presenter) Prepend(n *notification.Notification) {
	p.emit(severityColor(n.Known()), "+ "+FormatNotification(n))
}

// Remove prints the removed key.
func (p *Presenter) Remove(key string) {
	p.emit(colorGray, "- "+key)
}

// Replace prints the whole list.
func (p *Presenter) Replace(ns []*notification.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.writeLine(colorGray, fmt.Sprintf("= %d notification(s)", len(ns)))

	for _, n := range ns {
		p.writeLine(severityColor(n.Known()), "  "+FormatNotification(n))
	}
}

// DisplayMuteState prints the label the mute button now offers.
func (p *Presenter) DisplayMuteState(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	label := p.phrases.Mute
	if muted {
		label = p.phrases.Unmute
	}

	p.writeLine(colorGray, "["+label+"]")
}

// DisplayEmptyState prints the placeholder when the panel becomes empty.
func (p *Presenter) DisplayEmptyState(empty bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.empty != nil && *p.empty == empty {
		return
	}

	p.empty = &empty

	if empty {
		p.writeLine(colorGray, p.phrases.NoNotif)

		return
	}

	p.writeLine(colorGray, "["+p.phrases.AckAll+"]")
}

// DisplayWaitingState prints the loading indicator.
func (p *Presenter) DisplayWaitingState(waiting bool) {
	if waiting {
		p.emit(colorGray, "loading...")
	}
}

// emit writes a line under the lock.
func (p *Presenter) emit(color, line string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.writeLine(color, line)
}

// writeLine writes a line. The caller holds mu.
func (p *Presenter) writeLine(color, line string) {
	if p.color {
		line = color + line + colorReset
	}

	// Nowhere to report a failed write to a terminal.
	_, _ = fmt.Fprintln(p.out, line)
}

// FormatNotification renders a notification as a single line.
func FormatNotification(n *notification.Notification) string {
	var b strings.Builder

	b.WriteString(Icon(n.Known()))
	b.WriteString(" ")
	b.WriteString(n.Key())

	if ts, ok := n.Timestamp(); ok {
		b.WriteString(" ")
		b.WriteString(ts.Format(TimestampLayout))
	}

	if text := MessageText(n.Message()); text != "" {
		b.WriteString(" ")
		b.WriteString(text)
	}

	return b.String()
}

// MessageText flattens a message to plain text.
func MessageText(m notification.Message) string {
	switch m.Format() {
	case notification.MarkupText:
		return flattenMarkup(m.Text())
	case notification.RichHandle:
		switch h := m.Handle().(type) {
		case nil:
			return ""
		case fmt.Stringer:
			return h.String()
		default:
			return fmt.Sprintf("%v", h)
		}
	default:
		return m.Text()
	}
}

// flattenMarkup keeps the text of an HTML fragment with entities decoded.
// Tags become word breaks.
func flattenMarkup(markup string) string {
	var (
		b strings.Builder
		z = html.NewTokenizer(strings.NewReader(markup))
	)

	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.CommentToken, html.DoctypeToken:
		}
	}
}

// Icon returns the glyph of a severity.
func Icon(s severity.Severity) string {
	switch s {
	case severity.Critical:
		return "✖"
	case severity.Major:
		return "▲"
	case severity.Minor:
		return "△"
	case severity.Info:
		return "ℹ"
	default:
		return "•"
	}
}

func severityColor(s severity.Severity) string {
	switch s {
	case severity.Critical:
		return colorRed
	case severity.Major, severity.Minor:
		return colorYellow
	case severity.Info:
		return colorCyan
	default:
		return colorGray
	}
}

func stateColor(state alarm.State) string {
	switch state {
	case alarm.CriticalActive:
		return colorRed
	case alarm.WarningActive:
		return colorYellow
	case alarm.InfoActive:
		return colorCyan
	default:
		return colorGray
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

var _ panel.Presenter = (*Presenter)(nil)
