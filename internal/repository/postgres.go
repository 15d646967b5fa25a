package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/agora/internal/models"
	"github.com/jackc/pgx/v5"
)

const schemaQuery = `
	CREATE TABLE IF NOT EXISTS venues (
		id          BIGSERIAL PRIMARY KEY,
		venue_id    TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		latitude    DOUBLE PRECISION NOT NULL,
		longitude   DOUBLE PRECISION NOT NULL,
		event_count INTEGER NOT NULL DEFAULT 0,
		imported_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS events (
		id          BIGSERIAL PRIMARY KEY,
		source_id   TEXT,
		venue_ref   BIGINT NOT NULL REFERENCES venues (id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		date_time   TEXT,
		description TEXT,
		presenter   TEXT,
		price       TEXT
	);
	CREATE INDEX IF NOT EXISTS events_venue_ref_idx ON events (venue_ref);
`

const (
	deleteEventsQuery = `DELETE FROM events;`
	deleteVenuesQuery = `DELETE FROM venues;`
	insertVenueQuery  = `
		INSERT INTO venues (venue_id, name, latitude, longitude, event_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`
)

var eventColumns = []string{"source_id", "venue_ref", "title", "date_time", "description", "presenter", "price"}

// EnsureSchema creates the venues and events tables when they do not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schemaQuery); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// ReplaceCatalog swaps the stored venues and events for batch in one transaction.
// Events whose venue is not part of batch.Venues are not stored.
func (r *Repository) ReplaceCatalog(ctx context.Context, batch models.ImportBatch) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err = r.replaceCatalog(ctx, tx, batch); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			r.log.ErrorContext(ctx, "Failed to roll back catalog replacement", "error", rbErr)
		}
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit catalog replacement: %w", err)
	}

	return nil
}

func (r *Repository) replaceCatalog(ctx context.Context, tx pgx.Tx, batch models.ImportBatch) error {
	if _, err := tx.Exec(ctx, deleteEventsQuery); err != nil {
		return fmt.Errorf("failed to delete events: %w", err)
	}
	if _, err := tx.Exec(ctx, deleteVenuesQuery); err != nil {
		return fmt.Errorf("failed to delete venues: %w", err)
	}

	refs := make(map[string]int64, len(batch.Venues))
	for _, venue := range batch.Venues {
		var ref int64
		err := tx.QueryRow(ctx, insertVenueQuery,
			venue.VenueID, venue.Name, venue.Latitude, venue.Longitude, venue.EventCount,
		).Scan(&ref)
		if err != nil {
			return fmt.Errorf("failed to insert venue %s: %w", venue.VenueID, err)
		}
		refs[venue.VenueID] = ref
		r.log.DebugContext(ctx, "Venue stored", "venue_id", venue.VenueID, "name", venue.Name, "ref", ref)
	}

	rows := make([][]any, 0, len(batch.Events))
	for _, evt := range batch.Events {
		ref, ok := refs[evt.VenueID]
		if !ok {
			r.log.WarnContext(ctx, "Event references a venue outside the batch", "venue_id", evt.VenueID)
			continue
		}
		rows = append(rows, []any{
			evt.SourceID, ref, evt.Title, evt.DateTime, evt.Description, evt.Presenter, evt.Price,
		})
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"events"}, eventColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("failed to copy events: %w", err)
	}

	r.log.DebugContext(ctx, "Catalog replaced", "venues", len(refs), "events", copied)

	return nil
}
