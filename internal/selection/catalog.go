package selection

import (
	"math"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/agora/internal/models"
)

// UnknownVenueName is used when the feed has no display name for a venue.
const UnknownVenueName = "Unknown Venue"

// Catalog maps a venue identifier to its display name and coordinates.
type Catalog map[string]models.VenueInfo

// BuildCatalog indexes the venues feed by identifier.
// Entries without an identifier are skipped. When the feed repeats an
// identifier the later entry replaces the earlier one.
func BuildCatalog(venues []models.RawVenue) Catalog {
	catalog := make(Catalog, len(venues))
	for _, venue := range venues {
		if venue.ID == "" {
			continue
		}

		name := strings.TrimSpace(venue.Name)
		if name == "" {
			name = UnknownVenueName
		}

		catalog[venue.ID] = models.VenueInfo{
			Name:      name,
			Latitude:  ParseCoordinate(venue.Latitude),
			Longitude: ParseCoordinate(venue.Longitude),
		}
	}

	return catalog
}

// ParseCoordinate parses a feed coordinate. It returns nil for empty,
// malformed or non-finite input. The range is not validated.
func ParseCoordinate(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}

	return &value
}

// HasCoordinates reports whether info carries a usable coordinate pair.
//
// NOTE: a zero latitude or longitude counts as missing. The importer has always
// behaved this way, so a venue on the equator or the prime meridian is never
// selected. Hong Kong venues cannot hit this, but it is a known defect.
func HasCoordinates(info models.VenueInfo) bool {
	return info.Latitude != nil && *info.Latitude != 0 &&
		info.Longitude != nil && *info.Longitude != 0
}

// CoordinateKey returns the exact grouping key "lat,lng" of info.
// No rounding is applied: 22.3 and 22.30000001 produce different keys.
// info must satisfy HasCoordinates.
func CoordinateKey(info models.VenueInfo) string {
	return formatCoordinate(*info.Latitude) + "," + formatCoordinate(*info.Longitude)
}

func formatCoordinate(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
