package store

import (
	"context"
	"time"

	"pinecrest.club/gazette/core/db"
	"pinecrest.club/gazette/internal/model"
)

type eventStore struct {
	q db.Querier
}

func (s *eventStore) ListBetween(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id, title, location, starts_at, created_at
		FROM events
		WHERE starts_at >= $1 AND starts_at < $2
		ORDER BY starts_at`,
		from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var event model.Event
		if err := rows.Scan(&event.ID, &event.Title, &event.Location, &event.StartsAt, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
