package panel

import (
	"github.com/oshokin/notif-panel/internal/domain/notification"
	"github.com/oshokin/notif-panel/internal/domain/severity"
)

// Counters holds notification counts per known severity and the highest
// active severity derived from them.
type Counters struct {
	// counts is indexed by severity rank.
	counts [4]int
	// highest is the most severe known severity with a non-zero count.
	highest severity.Severity
}

// Increment bumps the count of a known severity. Undefined is ignored.
func (c *Counters) Increment(s severity.Severity) {
	if !s.IsKnown() {
		return
	}

	c.counts[s.Rank()]++

	if s.MoreSevere(c.highest) {
		c.highest = s
	}
}

// Decrement lowers the count of a known severity, never below zero, and
// rescans the counts for the highest active severity.
func (c *Counters) Decrement(s severity.Severity) {
	if s.IsKnown() && c.counts[s.Rank()] > 0 {
		c.counts[s.Rank()]--
	}

	c.highest = severity.Undefined

	for _, k := range severity.Known() {
		if c.counts[k.Rank()] > 0 {
			c.highest = k

			break
		}
	}
}

// Reset sets every count to zero.
func (c *Counters) Reset() {
	c.counts = [4]int{}
	c.highest = severity.Undefined
}

// RecomputeAll resets the counters and counts ns from scratch.
func (c *Counters) RecomputeAll(ns []*notification.Notification) {
	c.Reset()

	for _, n := range ns {
		c.Increment(n.Known())
	}
}

// Highest returns the most severe known severity with a non-zero count, or Undefined.
func (c *Counters) Highest() severity.Severity {
	return c.highest
}

// Count returns the count of a known severity.
func (c *Counters) Count(s severity.Severity) int {
	if !s.IsKnown() {
		return 0
	}

	return c.counts[s.Rank()]
}

// Total returns the number of counted notifications.
func (c *Counters) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}

	return total
}
