// Package geocoding resolves coordinates for venues the feed left without any.
package geocoding

import (
	"context"

	"github.com/UnknownOlympus/agora/internal/models"
)

// Provider is an interface that defines a method for geocoding a venue.
// The Geocode method takes a context and a free-text query (usually the venue
// name) and returns the coordinates of the best match.
type Provider interface {
	Geocode(ctx context.Context, query string) (*models.Coordinates, error)
}
