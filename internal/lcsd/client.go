// Package lcsd reads the event and venue feeds published by the Leisure and
// Cultural Services Department on data.gov.hk.
package lcsd

import (
	"bytes"
	"context"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/agora/internal/metrics"
	"github.com/UnknownOlympus/agora/internal/models"
)

// Client fetches and decodes both feeds.
type Client struct {
	source    Source           // source delivers raw feed bytes
	eventsURL string           // location of events.xml
	venuesURL string           // location of venues.xml
	log       *slog.Logger     // logger for feed activity
	metrics   *metrics.Metrics // metrics for download durations
}

// NewClient creates a Client reading eventsURL and venuesURL from source.
func NewClient(
	source Source,
	eventsURL, venuesURL string,
	log *slog.Logger,
	metrics *metrics.Metrics,
) *Client {
	return &Client{
		source:    source,
		eventsURL: eventsURL,
		venuesURL: venuesURL,
		log:       log,
		metrics:   metrics,
	}
}

// Events returns every record of the events feed.
func (c *Client) Events(ctx context.Context) ([]models.RawEvent, error) {
	body, err := c.fetch(ctx, "events", c.eventsURL)
	if err != nil {
		return nil, err
	}

	events, err := DecodeEvents(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.log.InfoContext(ctx, "Events feed loaded", "events", len(events))

	return events, nil
}

// Venues returns every entry of the venues feed.
func (c *Client) Venues(ctx context.Context) ([]models.RawVenue, error) {
	body, err := c.fetch(ctx, "venues", c.venuesURL)
	if err != nil {
		return nil, err
	}

	venues, err := DecodeVenues(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.log.InfoContext(ctx, "Venues feed loaded", "venues", len(venues))

	return venues, nil
}

func (c *Client) fetch(ctx context.Context, feed, location string) ([]byte, error) {
	startTime := time.Now()
	body, err := c.source.Fetch(ctx, location)
	c.metrics.FeedSeconds.WithLabelValues(feed).Observe(time.Since(startTime).Seconds())
	if err != nil {
		c.log.ErrorContext(ctx, "Failed to fetch feed", "feed", feed, "location", location, "error", err)
		return nil, err
	}

	return body, nil
}
