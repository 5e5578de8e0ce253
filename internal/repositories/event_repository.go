package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/munera-collective/munera-platform/internal/models"
	"github.com/munera-collective/munera-platform/internal/utils"
)

type EventRepository interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	// ListEvents filters by status when non-empty. Upcoming events sort by
	// date ascending, everything else newest first.
	ListEvents(ctx context.Context, status models.EventStatus) ([]*models.Event, error)
}

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepo(db *sql.DB) EventRepository {
	return &eventRepository{DB: db}
}

const eventColumns = `id, name, date, start_time, end_time, venue, city, latitude, longitude, lineup, status, description, flyer_url, ticket_link, created_at`

func scanEvent(row rowScanner) (*models.Event, error) {
	event := &models.Event{}

	var (
		lineup    pq.StringArray
		latitude  sql.NullFloat64
		longitude sql.NullFloat64
	)

	err := row.Scan(&event.ID, &event.Name, &event.Date, &event.StartTime, &event.EndTime, &event.Venue, &event.City, &latitude, &longitude, &lineup, &event.Status, &event.Description, &event.FlyerURL, &event.TicketLink, &event.CreatedAt)
	if err != nil {
		return nil, err
	}

	event.Lineup = []string(lineup)

	if latitude.Valid && longitude.Valid {
		event.Latitude = &latitude.Float64
		event.Longitude = &longitude.Float64
	}

	return event, nil
}

func (r *eventRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO events (name, date, start_time, end_time, venue, city, latitude, longitude, lineup, status, description, flyer_url, ticket_link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at`

	err := r.DB.QueryRowContext(dbCtx, query,
		event.Name, event.Date, event.StartTime, event.EndTime, event.Venue, event.City,
		event.Latitude, event.Longitude, textArray(event.Lineup), event.Status,
		event.Description, event.FlyerURL, event.TicketLink,
	).Scan(&event.ID, &event.CreatedAt)

	return mapError(err)
}

func (r *eventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	event, err := scanEvent(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		return nil, fmt.Errorf("querying event: %w", mapError(err))
	}

	return event, nil
}

func (r *eventRepository) UpdateEvent(ctx context.Context, event *models.Event) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE events SET name = $1, date = $2, start_time = $3, end_time = $4, venue = $5, city = $6,
			latitude = $7, longitude = $8, lineup = $9, status = $10, description = $11, flyer_url = $12, ticket_link = $13
		WHERE id = $14`

	return execAffectingOne(dbCtx, r.DB, query,
		event.Name, event.Date, event.StartTime, event.EndTime, event.Venue, event.City,
		event.Latitude, event.Longitude, textArray(event.Lineup), event.Status,
		event.Description, event.FlyerURL, event.TicketLink, event.ID,
	)
}

func (r *eventRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	return execAffectingOne(dbCtx, r.DB, `DELETE FROM events WHERE id = $1`, id)
}

func (r *eventRepository) ListEvents(ctx context.Context, status models.EventStatus) ([]*models.Event, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := "DESC"
	if status == models.EventStatusUpcoming {
		order = "ASC"
	}

	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE ($1 = '' OR status = $1)
		ORDER BY date ` + order

	rows, err := r.DB.QueryContext(dbCtx, query, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*models.Event{}

	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}

		events = append(events, event)
	}

	return events, rows.Err()
}
