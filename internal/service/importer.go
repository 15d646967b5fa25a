// Package service runs venue imports: it reads both feeds, selects the
// busiest venues and replaces the stored catalog with them.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/agora/internal/geocoding"
	"github.com/UnknownOlympus/agora/internal/metrics"
	"github.com/UnknownOlympus/agora/internal/models"
	"github.com/UnknownOlympus/agora/internal/repository"
	"github.com/UnknownOlympus/agora/internal/selection"
	"golang.org/x/sync/errgroup"
)

// ErrNoVenuesSelected is returned when no venue qualifies. The stored catalog
// is left untouched in that case.
var ErrNoVenuesSelected = errors.New("no venues selected")

// FeedSource delivers the decoded event and venue feeds.
type FeedSource interface {
	Events(ctx context.Context) ([]models.RawEvent, error)
	Venues(ctx context.Context) ([]models.RawVenue, error)
}

// Report summarizes one import run.
type Report struct {
	FeedEvents int                 // FeedEvents is the number of records in the events feed.
	FeedVenues int                 // FeedVenues is the number of catalog entries built from the venues feed.
	Geocoded   int                 // Geocoded counts venues whose coordinates were backfilled.
	Selection  selection.Selection // Selection is the outcome of venue selection.
	Venues     int                 // Venues is the number of venues stored.
	Events     int                 // Events is the number of events stored.
	Skipped    int                 // Skipped counts events dropped because their venue was not selected.
}

// ImportService orchestrates feed download, venue selection and persistence.
type ImportService struct {
	log          *slog.Logger         // Logger for service activity
	feeds        FeedSource           // Source of the events and venues feeds
	repo         repository.Interface // Storage for the selected catalog
	provider     geocoding.Provider   // Optional geocoder, nil disables backfill
	providerName string               // Name of the provider for metrics labeling
	metrics      *metrics.Metrics     // Metrics for tracking import runs
	options      selection.Options    // Venue selection tuning
	numWorkers   int                  // Number of concurrent geocoding workers
	interval     time.Duration        // Interval between imports in worker mode
	queryPrefix  string               // Prepended to venue names before geocoding
}

// NewImportService creates a new instance of ImportService. provider may be
// nil, in which case venues without coordinates are never backfilled.
func NewImportService(
	log *slog.Logger,
	feeds FeedSource,
	repo repository.Interface,
	provider geocoding.Provider,
	providerName string,
	metrics *metrics.Metrics,
	options selection.Options,
	numWorkers int,
	interval time.Duration,
	queryPrefix string,
) *ImportService {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if options.MinEvents <= 0 {
		options.MinEvents = selection.DefaultMinEvents
	}

	return &ImportService{
		log:          log,
		feeds:        feeds,
		repo:         repo,
		provider:     provider,
		providerName: providerName,
		metrics:      metrics,
		options:      options,
		numWorkers:   numWorkers,
		interval:     interval,
		queryPrefix:  queryPrefix,
	}
}

// Run imports immediately and then once per interval until ctx is cancelled.
// A non-positive interval imports once.
// Failed runs are logged and retried on the next tick.
func (s *ImportService) Run(ctx context.Context) {
	if s.interval <= 0 {
		s.runLogged(ctx)
		return
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.InfoContext(ctx, "Import service started...", "interval", s.interval)
	s.runLogged(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.InfoContext(ctx, "Import service stopped.")
			return
		case <-ticker.C:
			s.runLogged(ctx)
		}
	}
}

func (s *ImportService) runLogged(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		s.log.ErrorContext(ctx, "Import failed", "error", err)
	}
}

// RunOnce performs a single import.
func (s *ImportService) RunOnce(ctx context.Context) (Report, error) {
	var report Report

	events, venues, err := s.fetchFeeds(ctx)
	if err != nil {
		s.metrics.ImportRuns.WithLabelValues("failure").Inc()
		return report, err
	}

	catalog := selection.BuildCatalog(venues)
	counts := selection.CountEventsByVenue(events)
	report.FeedEvents, report.FeedVenues = len(events), len(catalog)

	s.log.InfoContext(ctx, "Feeds indexed",
		"events", len(events),
		"venues", len(catalog),
		"venues_with_events", counts.Len(),
	)

	if s.provider != nil {
		report.Geocoded = s.backfillCoordinates(ctx, catalog, counts)
	}

	sel := selection.SelectTopVenues(counts, catalog, s.options)
	report.Selection = sel
	s.logSelection(ctx, sel)

	if sel.Empty() {
		s.log.WarnContext(ctx, "No venues qualified, stored catalog left untouched",
			"min_events", s.options.MinEvents,
			"eligible", sel.Eligible,
		)
		s.metrics.ImportRuns.WithLabelValues("empty").Inc()
		return report, ErrNoVenuesSelected
	}

	batch := BuildBatch(sel.VenueIDs, catalog, counts, events)
	if err = s.repo.ReplaceCatalog(ctx, batch); err != nil {
		s.metrics.ImportRuns.WithLabelValues("failure").Inc()
		return report, fmt.Errorf("failed to store catalog: %w", err)
	}

	report.Venues, report.Events, report.Skipped = len(batch.Venues), len(batch.Events), batch.Skipped

	s.metrics.ImportRuns.WithLabelValues("success").Inc()
	s.metrics.VenuesSelected.Set(float64(report.Venues))
	s.metrics.EventsImported.Set(float64(report.Events))
	s.metrics.EventsSkipped.Set(float64(report.Skipped))

	s.log.InfoContext(ctx, "Import finished",
		"venues", report.Venues,
		"events", report.Events,
		"skipped_events", report.Skipped,
	)

	return report, nil
}

// fetchFeeds downloads both feeds concurrently.
func (s *ImportService) fetchFeeds(ctx context.Context) ([]models.RawEvent, []models.RawVenue, error) {
	var (
		events []models.RawEvent
		venues []models.RawVenue
	)

	grp, gctx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		var err error
		events, err = s.feeds.Events(gctx)
		if err != nil {
			return fmt.Errorf("failed to load events feed: %w", err)
		}
		return nil
	})
	grp.Go(func() error {
		var err error
		venues, err = s.feeds.Venues(gctx)
		if err != nil {
			return fmt.Errorf("failed to load venues feed: %w", err)
		}
		return nil
	})

	if err := grp.Wait(); err != nil {
		return nil, nil, err
	}

	return events, venues, nil
}

func (s *ImportService) logSelection(ctx context.Context, sel selection.Selection) {
	for _, group := range sel.Groups {
		if !group.Duplicated() {
			continue
		}

		removed := make([]string, 0, len(group.Losers))
		for _, loser := range group.Losers {
			removed = append(removed, fmt.Sprintf("%s (%d events)", loser.Name, loser.EventCount))
		}
		s.log.InfoContext(ctx, "Venues share coordinates",
			"coordinates", group.Key,
			"kept", group.Winner.Name,
			"kept_events", group.Winner.EventCount,
			"removed", removed,
		)
	}

	removed := len(sel.Removed())
	s.metrics.DuplicatesRemoved.Add(float64(removed))

	s.log.InfoContext(ctx, "Venues selected",
		"selected", len(sel.VenueIDs),
		"requested", sel.Requested,
		"eligible", sel.Eligible,
		"candidates", sel.Candidates,
		"duplicates_removed", removed,
	)

	if !sel.Empty() && sel.UnderFilled() {
		s.log.WarnContext(ctx, "Fewer venues than requested after removing coordinate duplicates",
			"selected", len(sel.VenueIDs),
			"requested", sel.Requested,
		)
	}
}
