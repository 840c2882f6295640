package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/planbot/core/logger"
	"github.com/m3rciful/planbot/internal/domain"
)

// EventRepo stores shared events.
type EventRepo struct {
	db *sqlx.DB
}

// Create inserts an event.
func (r *EventRepo) Create(ctx context.Context, in domain.NewEvent) (domain.Event, error) {
	if strings.TrimSpace(in.Title) == "" || in.Date.IsZero() {
		return domain.Event{}, domain.Validation("events.create", "title and date are required", nil)
	}
	ev := domain.Event{Title: in.Title, Date: in.Date}
	if err := r.db.GetContext(ctx, &ev.ID,
		r.db.Rebind(`INSERT INTO events (title, date) VALUES (?, ?) RETURNING id`),
		in.Title, in.Date,
	); err != nil {
		return domain.Event{}, fmt.Errorf("create event: %w", err)
	}
	logger.Debug(ctx, "service.events", "event.created", slog.Int64("event_id", ev.ID))
	return ev, nil
}

// List returns all events in creation order.
func (r *EventRepo) List(ctx context.Context) ([]domain.Event, error) {
	events := []domain.Event{}
	if err := r.db.SelectContext(ctx, &events, `SELECT id, title, date FROM events ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Delete removes an event and returns its title.
func (r *EventRepo) Delete(ctx context.Context, id int64) (string, error) {
	title, ok, err := deleteReturning(ctx, r.db, "events", "title", id)
	if err != nil {
		return "", fmt.Errorf("delete event: %w", err)
	}
	if !ok {
		return "", domain.NotFound("events.delete", fmt.Sprintf("id %d", id))
	}
	logger.Debug(ctx, "service.events", "event.deleted", slog.Int64("event_id", id))
	return title, nil
}
