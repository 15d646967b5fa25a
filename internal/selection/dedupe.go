package selection

import "slices"

// RankedVenue is a deduplication candidate annotated with its event count.
type RankedVenue struct {
	ID         string
	Name       string
	EventCount int
}

// CoordinateGroup holds the candidates that share one exact coordinate pair.
type CoordinateGroup struct {
	Key    string        // Key is the "lat,lng" grouping key.
	Winner RankedVenue   // Winner is the member with the highest event count.
	Losers []RankedVenue // Losers are the remaining members, highest count first.
}

// Duplicated reports whether more than one venue shared the coordinates.
func (g CoordinateGroup) Duplicated() bool {
	return len(g.Losers) > 0
}

// GroupByCoordinates groups candidates by exact coordinate pair and elects the
// busiest venue of each group. Candidates missing from the catalog or without
// coordinates are skipped. Groups are returned in the order their first member
// appears in candidates; within a group equal counts keep candidate order.
func GroupByCoordinates(candidates []string, catalog Catalog, counts *EventCounts) []CoordinateGroup {
	var keys []string
	members := make(map[string][]RankedVenue)

	for _, venueID := range candidates {
		info, ok := catalog[venueID]
		if !ok || !HasCoordinates(info) {
			continue
		}

		key := CoordinateKey(info)
		if _, seen := members[key]; !seen {
			keys = append(keys, key)
		}
		members[key] = append(members[key], RankedVenue{
			ID:         venueID,
			Name:       info.Name,
			EventCount: counts.Get(venueID),
		})
	}

	groups := make([]CoordinateGroup, 0, len(keys))
	for _, key := range keys {
		venues := members[key]
		slices.SortStableFunc(venues, func(a, b RankedVenue) int {
			return b.EventCount - a.EventCount
		})

		group := CoordinateGroup{Key: key, Winner: venues[0]}
		if len(venues) > 1 {
			group.Losers = venues[1:]
		}
		groups = append(groups, group)
	}

	return groups
}

// RemoveDuplicateCoordinates keeps one venue per distinct coordinate pair,
// the one with the most events.
func RemoveDuplicateCoordinates(candidates []string, catalog Catalog, counts *EventCounts) []string {
	return winners(GroupByCoordinates(candidates, catalog, counts))
}

func winners(groups []CoordinateGroup) []string {
	ids := make([]string, 0, len(groups))
	for _, group := range groups {
		ids = append(ids, group.Winner.ID)
	}

	return ids
}
