package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/models"
	"github.com/munera-collective/munera-platform/internal/utils"
)

type MediaRepository interface {
	CreateMedia(ctx context.Context, media *models.Media) error
	GetMediaByID(ctx context.Context, id uuid.UUID) (*models.Media, error)
	ListMediaByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.Media, error)
	DeleteMedia(ctx context.Context, id uuid.UUID) error
}

type mediaRepository struct {
	DB *sql.DB
}

func NewMediaRepo(db *sql.DB) MediaRepository {
	return &mediaRepository{DB: db}
}

func (r *mediaRepository) CreateMedia(ctx context.Context, media *models.Media) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO media (event_id, url, type) VALUES ($1, $2, $3) RETURNING id, created_at`

	return mapError(r.DB.QueryRowContext(dbCtx, query, media.EventID, media.URL, media.Type).Scan(&media.ID, &media.CreatedAt))
}

func (r *mediaRepository) GetMediaByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	media := &models.Media{}

	query := `SELECT id, event_id, url, type, created_at FROM media WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&media.ID, &media.EventID, &media.URL, &media.Type, &media.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	return media, nil
}

func (r *mediaRepository) ListMediaByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.Media, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT id, event_id, url, type, created_at FROM media WHERE event_id = $1 ORDER BY created_at`

	rows, err := r.DB.QueryContext(dbCtx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*models.Media{}

	for rows.Next() {
		media := &models.Media{}
		if err := rows.Scan(&media.ID, &media.EventID, &media.URL, &media.Type, &media.CreatedAt); err != nil {
			return nil, err
		}

		items = append(items, media)
	}

	return items, rows.Err()
}

func (r *mediaRepository) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	return execAffectingOne(dbCtx, r.DB, `DELETE FROM media WHERE id = $1`, id)
}
