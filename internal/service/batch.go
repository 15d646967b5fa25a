package service

import (
	"strings"

	"github.com/UnknownOlympus/agora/internal/models"
	"github.com/UnknownOlympus/agora/internal/selection"
)

// Placeholders stored when an event field is blank in the feed.
const (
	DefaultTitle       = "No Title"
	DefaultDateTime    = "TBA"
	DefaultDescription = "No description available."
	DefaultPresenter   = "Unknown Presenter"
	DefaultPrice       = "Free"
)

// MaxDescriptionRunes caps stored descriptions; longer ones are cut and end with "...".
const MaxDescriptionRunes = 500

// BuildBatch assembles the rows of one import: the selected venues in
// selection order and the events that belong to them in feed order.
// Events of other venues are only counted in Skipped.
func BuildBatch(
	selected []string,
	catalog selection.Catalog,
	counts *selection.EventCounts,
	events []models.RawEvent,
) models.ImportBatch {
	batch := models.ImportBatch{Venues: make([]models.Venue, 0, len(selected))}

	allowed := make(map[string]struct{}, len(selected))
	for _, venueID := range selected {
		info := catalog[venueID]
		if !selection.HasCoordinates(info) {
			continue
		}

		allowed[venueID] = struct{}{}
		batch.Venues = append(batch.Venues, models.Venue{
			VenueID:    venueID,
			Name:       info.Name,
			Latitude:   *info.Latitude,
			Longitude:  *info.Longitude,
			EventCount: counts.Get(venueID),
		})
	}

	for _, event := range events {
		if _, ok := allowed[event.VenueID]; !ok {
			batch.Skipped++
			continue
		}

		batch.Events = append(batch.Events, models.Event{
			SourceID:    event.ID,
			VenueID:     event.VenueID,
			Title:       orDefault(event.Title, DefaultTitle),
			DateTime:    orDefault(event.DateTime, DefaultDateTime),
			Description: truncate(orDefault(event.Description, DefaultDescription), MaxDescriptionRunes),
			Presenter:   orDefault(event.Presenter, DefaultPresenter),
			Price:       orDefault(event.Price, DefaultPrice),
		})
	}

	return batch
}

func orDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}

	return value
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}

	return string(runes[:limit]) + "..."
}
