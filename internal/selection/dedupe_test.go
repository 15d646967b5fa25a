package selection_test

import (
	"testing"

	"github.com/UnknownOlympus/agora/internal/models"
	"github.com/UnknownOlympus/agora/internal/selection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countsOf builds event counts in the given order.
func countsOf(pairs ...any) *selection.EventCounts {
	counts := selection.NewEventCounts()
	for i := 0; i < len(pairs); i += 2 {
		id, _ := pairs[i].(string)
		n, _ := pairs[i+1].(int)
		for range n {
			counts.Add(id)
		}
	}

	return counts
}

func TestRemoveDuplicateCoordinates(t *testing.T) {
	t.Parallel()

	t.Run("keeps the busiest venue of a shared coordinate", func(t *testing.T) {
		t.Parallel()
		catalog := selection.Catalog{
			"A": venue("A", 22.1, 114.1),
			"B": venue("B", 22.1, 114.1),
			"C": venue("C", 22.2, 114.2),
		}
		counts := countsOf("A", 10, "B", 5, "C", 8)

		got := selection.RemoveDuplicateCoordinates([]string{"B", "C", "A"}, catalog, counts)

		assert.Equal(t, []string{"A", "C"}, got)
	})

	t.Run("ties keep candidate order", func(t *testing.T) {
		t.Parallel()
		catalog := selection.Catalog{}
		for _, id := range []string{"v1", "v2", "v3", "v4", "v5"} {
			catalog[id] = venue(id, 22.3, 114.2)
		}
		counts := countsOf("v1", 3, "v2", 3, "v3", 3, "v4", 3, "v5", 3)

		assert.Equal(t, []string{"v3"},
			selection.RemoveDuplicateCoordinates([]string{"v3", "v1", "v5", "v2", "v4"}, catalog, counts))
		assert.Equal(t, []string{"v1"},
			selection.RemoveDuplicateCoordinates([]string{"v1", "v2", "v3", "v4", "v5"}, catalog, counts))
	})

	t.Run("skips candidates without catalog entry or coordinates", func(t *testing.T) {
		t.Parallel()
		catalog := selection.Catalog{
			"ok":      venue("ok", 22.1, 114.1),
			"nolat":   {Name: "nolat", Longitude: ptr(114.3)},
			"nolng":   {Name: "nolng", Latitude: ptr(22.3)},
			"zero":    venue("zero", 0, 0),
			"zerolat": venue("zerolat", 0, 114.4),
		}
		counts := countsOf("ok", 1, "nolat", 9, "nolng", 9, "zero", 9, "zerolat", 9, "ghost", 9)

		got := selection.RemoveDuplicateCoordinates(
			[]string{"ghost", "nolat", "nolng", "zero", "zerolat", "ok"}, catalog, counts)

		assert.Equal(t, []string{"ok"}, got)
	})

	t.Run("exact coordinates only", func(t *testing.T) {
		t.Parallel()
		catalog := selection.Catalog{
			"a": venue("a", 22.3, 114.1),
			"b": venue("b", 22.30000001, 114.1),
		}
		counts := countsOf("a", 4, "b", 4)

		assert.Equal(t, []string{"a", "b"},
			selection.RemoveDuplicateCoordinates([]string{"a", "b"}, catalog, counts))
	})

	t.Run("empty candidates", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, selection.RemoveDuplicateCoordinates(nil, selection.Catalog{}, selection.NewEventCounts()))
	})
}

func TestGroupByCoordinates(t *testing.T) {
	t.Parallel()

	catalog := selection.Catalog{
		"A": venue("Alpha", 22.1, 114.1),
		"B": venue("Beta", 22.1, 114.1),
		"C": venue("Gamma", 22.2, 114.2),
		"D": venue("Delta", 22.1, 114.1),
	}
	counts := countsOf("A", 4, "B", 7, "C", 8, "D", 4)

	groups := selection.GroupByCoordinates([]string{"A", "C", "B", "D"}, catalog, counts)

	require.Len(t, groups, 2)

	assert.Equal(t, "22.1,114.1", groups[0].Key)
	assert.True(t, groups[0].Duplicated())
	assert.Equal(t, selection.RankedVenue{ID: "B", Name: "Beta", EventCount: 7}, groups[0].Winner)
	assert.Equal(t, []selection.RankedVenue{
		{ID: "A", Name: "Alpha", EventCount: 4},
		{ID: "D", Name: "Delta", EventCount: 4},
	}, groups[0].Losers)

	assert.Equal(t, "22.2,114.2", groups[1].Key)
	assert.False(t, groups[1].Duplicated())
	assert.Equal(t, "C", groups[1].Winner.ID)
	assert.Empty(t, groups[1].Losers)
}

func TestRemoveDuplicateCoordinates_Properties(t *testing.T) {
	t.Parallel()

	catalog := selection.Catalog{}
	counts := selection.NewEventCounts()
	var candidates []string
	// 40 venues spread over 7 coordinate pairs with varied counts.
	for i := range 40 {
		id := string(rune('a'+i%26)) + string(rune('0'+i/26))
		lat := 22.0 + float64(i%7)/10
		catalog[id] = models.VenueInfo{Name: id, Latitude: ptr(lat), Longitude: ptr(114.1)}
		for range (i*7)%11 + 1 {
			counts.Add(id)
		}
		candidates = append(candidates, id)
	}

	got := selection.RemoveDuplicateCoordinates(candidates, catalog, counts)

	t.Run("one venue per coordinate pair", func(t *testing.T) {
		t.Parallel()
		seen := map[string]bool{}
		for _, id := range got {
			key := selection.CoordinateKey(catalog[id])
			assert.False(t, seen[key], "duplicate coordinates %s", key)
			seen[key] = true
		}
		assert.Len(t, got, 7)
	})

	t.Run("winner is the busiest of its group", func(t *testing.T) {
		t.Parallel()
		for _, winner := range got {
			key := selection.CoordinateKey(catalog[winner])
			for _, other := range candidates {
				if selection.CoordinateKey(catalog[other]) == key {
					assert.GreaterOrEqual(t, counts.Get(winner), counts.Get(other))
				}
			}
		}
	})
}
