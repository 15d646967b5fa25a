package lcsd

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/UnknownOlympus/agora/internal/models"
)

// eventsDocument mirrors events.xml. Only the English fields are read.
type eventsDocument struct {
	Events []struct {
		ID          string `xml:"id,attr"`
		VenueID     string `xml:"venueid"`
		Title       string `xml:"titlee"`
		DateTime    string `xml:"predateE"`
		Description string `xml:"desce"`
		Presenter   string `xml:"presenterorge"`
		Price       string `xml:"pricee"`
	} `xml:"event"`
}

// venuesDocument mirrors venues.xml.
type venuesDocument struct {
	Venues []struct {
		ID        string `xml:"id,attr"`
		Name      string `xml:"venuee"`
		Latitude  string `xml:"latitude"`
		Longitude string `xml:"longitude"`
	} `xml:"venue"`
}

// DecodeEvents parses an events.xml document.
func DecodeEvents(r io.Reader) ([]models.RawEvent, error) {
	var doc eventsDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode events feed: %w", err)
	}

	events := make([]models.RawEvent, 0, len(doc.Events))
	for _, evt := range doc.Events {
		events = append(events, models.RawEvent{
			ID:          strings.TrimSpace(evt.ID),
			VenueID:     strings.TrimSpace(evt.VenueID),
			Title:       strings.TrimSpace(evt.Title),
			DateTime:    strings.TrimSpace(evt.DateTime),
			Description: evt.Description,
			Presenter:   strings.TrimSpace(evt.Presenter),
			Price:       strings.TrimSpace(evt.Price),
		})
	}

	return events, nil
}

// DecodeVenues parses a venues.xml document.
func DecodeVenues(r io.Reader) ([]models.RawVenue, error) {
	var doc venuesDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode venues feed: %w", err)
	}

	venues := make([]models.RawVenue, 0, len(doc.Venues))
	for _, venue := range doc.Venues {
		venues = append(venues, models.RawVenue{
			ID:        strings.TrimSpace(venue.ID),
			Name:      strings.TrimSpace(venue.Name),
			Latitude:  strings.TrimSpace(venue.Latitude),
			Longitude: strings.TrimSpace(venue.Longitude),
		})
	}

	return venues, nil
}
