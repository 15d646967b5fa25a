package service

import (
	"context"
	"sync"
	"time"

	"github.com/UnknownOlympus/agora/internal/models"
	"github.com/UnknownOlympus/agora/internal/selection"
)

type geocodeJob struct {
	venueID string
	query   string
}

type geocodeResult struct {
	venueID string
	coords  models.Coordinates
}

// backfillCoordinates geocodes the venues that are busy enough to be selected
// but have no usable coordinates, and writes the results into catalog.
// Failed lookups are logged and leave the entry untouched.
func (s *ImportService) backfillCoordinates(
	ctx context.Context,
	catalog selection.Catalog,
	counts *selection.EventCounts,
) int {
	var jobs []geocodeJob
	for _, venueID := range counts.IDs() {
		info, ok := catalog[venueID]
		if !ok || selection.HasCoordinates(info) || counts.Get(venueID) < s.options.MinEvents {
			continue
		}
		if info.Name == selection.UnknownVenueName {
			continue
		}
		jobs = append(jobs, geocodeJob{venueID: venueID, query: s.queryPrefix + info.Name})
	}

	if len(jobs) == 0 {
		s.log.DebugContext(ctx, "No venues need coordinate backfill")
		return 0
	}

	s.log.InfoContext(
		ctx,
		"Found venues without coordinates. Starting worker pool.",
		"jobs", len(jobs),
		"num_workers", s.numWorkers,
	)

	queue := make(chan geocodeJob, len(jobs))
	results := make(chan geocodeResult, len(jobs))
	var wgr sync.WaitGroup

	for i := 1; i <= s.numWorkers; i++ {
		wgr.Add(1)
		go s.worker(ctx, i, &wgr, queue, results)
	}

	for _, job := range jobs {
		queue <- job
	}
	close(queue)

	wgr.Wait()
	close(results)

	resolved := 0
	for result := range results {
		lat, lng := result.coords.Latitude, result.coords.Longitude
		info := catalog[result.venueID]
		info.Latitude, info.Longitude = &lat, &lng
		catalog[result.venueID] = info
		resolved++
	}

	s.log.InfoContext(ctx, "Coordinate backfill finished", "resolved", resolved, "failed", len(jobs)-resolved)

	return resolved
}

// worker geocodes jobs until the queue is drained and reports every
// successful lookup on results.
func (s *ImportService) worker(
	ctx context.Context,
	idx int,
	wg *sync.WaitGroup,
	jobs <-chan geocodeJob,
	results chan<- geocodeResult,
) {
	defer wg.Done()
	for job := range jobs {
		s.metrics.ActiveWorkers.Inc()
		s.log.DebugContext(ctx, "Geocoding venue", "worker", idx, "venue", job.venueID)

		startTime := time.Now()
		coords, err := s.provider.Geocode(ctx, job.query)
		s.metrics.GeocodeSeconds.WithLabelValues(s.providerName).Observe(time.Since(startTime).Seconds())

		switch {
		case err != nil:
			s.log.ErrorContext(ctx, "Failed to geocode", "worker", idx, "venue", job.venueID, "error", err)
			s.metrics.GeocodeErrors.Inc()
		case coords == nil || coords.Latitude == 0 || coords.Longitude == 0:
			s.log.WarnContext(ctx, "Geocoder returned no usable coordinates", "worker", idx, "venue", job.venueID)
		default:
			results <- geocodeResult{venueID: job.venueID, coords: *coords}
			s.log.DebugContext(ctx, "Worker successfully geocoded the venue", "worker", idx, "venue", job.venueID)
		}

		s.metrics.ActiveWorkers.Dec()
	}
}
