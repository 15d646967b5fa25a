package selection

import "slices"

// Default selection parameters.
const (
	DefaultMinEvents = 3
	DefaultTopCount  = 10
	// DefaultOverFetch is how many times TopCount candidates are ranked before
	// deduplication shrinks the list.
	DefaultOverFetch = 3
)

// Options tunes SelectTopVenues. Zero or negative numbers take the defaults.
type Options struct {
	MinEvents int // MinEvents is the minimum number of events a venue needs.
	TopCount  int // TopCount is the maximum number of venues returned.
	OverFetch int // OverFetch multiplies TopCount to size the candidate window.
	// Backfill widens the candidate window until TopCount venues survive
	// deduplication or candidates run out. Off by default: the window is
	// fixed and a short result is returned as is.
	Backfill bool
}

// DefaultOptions returns the options used by the importer.
func DefaultOptions() Options {
	return Options{
		MinEvents: DefaultMinEvents,
		TopCount:  DefaultTopCount,
		OverFetch: DefaultOverFetch,
	}
}

func (o Options) withDefaults() Options {
	if o.MinEvents <= 0 {
		o.MinEvents = DefaultMinEvents
	}
	if o.TopCount <= 0 {
		o.TopCount = DefaultTopCount
	}
	if o.OverFetch <= 0 {
		o.OverFetch = DefaultOverFetch
	}

	return o
}

// Selection is the outcome of SelectTopVenues.
type Selection struct {
	VenueIDs   []string          // VenueIDs are the selected venues, busiest first.
	Requested  int               // Requested is the TopCount that was asked for.
	Eligible   int               // Eligible counts venues passing the activity and coordinate filters.
	Candidates int               // Candidates is the size of the window that was deduplicated.
	Groups     []CoordinateGroup // Groups are the coordinate groups of the window.
}

// Empty reports whether no venue was selected.
func (s Selection) Empty() bool {
	return len(s.VenueIDs) == 0
}

// UnderFilled reports whether fewer venues than requested were selected.
func (s Selection) UnderFilled() bool {
	return len(s.VenueIDs) < s.Requested
}

// Removed returns the venues dropped as coordinate duplicates.
func (s Selection) Removed() []RankedVenue {
	var removed []RankedVenue
	for _, group := range s.Groups {
		removed = append(removed, group.Losers...)
	}

	return removed
}

// SelectTopVenues ranks venues by event count and returns at most
// opts.TopCount of them, one per distinct coordinate pair.
//
// Only the first TopCount*OverFetch ranked candidates are deduplicated. When
// many of them share coordinates the result can hold fewer than TopCount
// venues even though lower ranked venues exist; set Backfill to widen the
// window instead. Equal counts keep the first-seen order of counts.
func SelectTopVenues(counts *EventCounts, catalog Catalog, opts Options) Selection {
	opts = opts.withDefaults()

	ranked := rankCandidates(counts, catalog, opts.MinEvents)
	step := opts.TopCount * opts.OverFetch
	window := min(step, len(ranked))

	groups := GroupByCoordinates(ranked[:window], catalog, counts)
	for opts.Backfill && len(groups) < opts.TopCount && window < len(ranked) {
		window = min(window+step, len(ranked))
		groups = GroupByCoordinates(ranked[:window], catalog, counts)
	}

	ids := winners(groups)
	if len(ids) > opts.TopCount {
		ids = ids[:opts.TopCount]
	}

	return Selection{
		VenueIDs:   ids,
		Requested:  opts.TopCount,
		Eligible:   len(ranked),
		Candidates: window,
		Groups:     groups,
	}
}

// rankCandidates returns the venues with at least minEvents events and usable
// coordinates, busiest first.
func rankCandidates(counts *EventCounts, catalog Catalog, minEvents int) []string {
	var ranked []string
	for _, venueID := range counts.IDs() {
		info, ok := catalog[venueID]
		if counts.Get(venueID) >= minEvents && ok && HasCoordinates(info) {
			ranked = append(ranked, venueID)
		}
	}

	slices.SortStableFunc(ranked, func(a, b string) int {
		return counts.Get(b) - counts.Get(a)
	})

	return ranked
}
