package activity

import (
	"context"
	"fmt"

	"media-gallery-api/internal/domain/activity"
	"media-gallery-api/internal/infrastructure/db/postgres"
)

const maxRecent = 500

type Repository struct {
	db postgres.Querier
}

func NewRepository(db postgres.Querier) activity.Repository {
	return &Repository{db: db}
}

// Insert is idempotent on the event id so redelivered messages are harmless.
func (r *Repository) Insert(ctx context.Context, e activity.Event) error {
	m := toDBModel(e)
	if _, err := r.db.Exec(ctx, InsertEvent,
		m.EventID, m.OccurredAt, m.Action, m.Kind, m.StorageKey, m.OriginalName, m.SizeBytes, m.Actor,
	); err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("insert activity event %s: %w", e.ID, err)
	}

	return nil
}

func (r *Repository) FetchRecent(ctx context.Context, limit int) (activity.Events, error) {
	if limit <= 0 || limit > maxRecent {
		limit = maxRecent
	}

	rows, err := r.db.Query(ctx, SelectRecentEvents, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := activity.Events{}
	for rows.Next() {
		m := new(Event)
		if err = rows.Scan(
			&m.EventID,
			&m.OccurredAt,
			&m.Action,
			&m.Kind,
			&m.StorageKey,
			&m.OriginalName,
			&m.SizeBytes,
			&m.Actor,
		); err != nil {
			return nil, err
		}
		events = append(events, fromDBModel(m))
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
