// Package selection picks the busiest venues of an import run.
//
// Every function in this package is pure: the same inputs always produce the
// same outputs and nothing is logged or persisted here.
package selection

import "github.com/UnknownOlympus/agora/internal/models"

// EventCounts maps a venue identifier to the number of events referencing it.
// The order in which identifiers were first seen is kept alongside the counts
// so that ranking ties resolve the same way on every run.
type EventCounts struct {
	counts map[string]int
	order  []string
}

// NewEventCounts returns an empty EventCounts.
func NewEventCounts() *EventCounts {
	return &EventCounts{counts: make(map[string]int)}
}

// CountEventsByVenue tallies how many events reference each venue.
// Events without a venue identifier are skipped.
func CountEventsByVenue(events []models.RawEvent) *EventCounts {
	counts := NewEventCounts()
	for _, evt := range events {
		counts.Add(evt.VenueID)
	}

	return counts
}

// Add increments the counter of venueID. An empty identifier is ignored.
func (c *EventCounts) Add(venueID string) {
	if venueID == "" {
		return
	}
	if _, seen := c.counts[venueID]; !seen {
		c.order = append(c.order, venueID)
	}
	c.counts[venueID]++
}

// Get returns the number of events for venueID, zero when it was never seen.
func (c *EventCounts) Get(venueID string) int {
	if c == nil {
		return 0
	}

	return c.counts[venueID]
}

// Len returns the number of distinct venues.
func (c *EventCounts) Len() int {
	if c == nil {
		return 0
	}

	return len(c.order)
}

// IDs returns venue identifiers in first-seen order.
func (c *EventCounts) IDs() []string {
	if c == nil {
		return nil
	}

	return append([]string(nil), c.order...)
}

// Map returns a copy of the counts.
func (c *EventCounts) Map() map[string]int {
	out := make(map[string]int, c.Len())
	if c == nil {
		return out
	}
	for id, n := range c.counts {
		out[id] = n
	}

	return out
}
