package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/models"
	"github.com/munera-collective/munera-platform/internal/utils"
)

type ContestRepository interface {
	CreateEdition(ctx context.Context, edition *models.ContestEdition) error
	// LatestEdition returns the most recently created edition.
	LatestEdition(ctx context.Context) (*models.ContestEdition, error)

	CreateContestant(ctx context.Context, contestant *models.Contestant) error
	GetContestantByID(ctx context.Context, id uuid.UUID) (*models.Contestant, error)
	UpdateContestant(ctx context.Context, contestant *models.Contestant) error
	DeleteContestant(ctx context.Context, id uuid.UUID) error
	ListContestants(ctx context.Context) ([]*models.Contestant, error)
	TopContestants(ctx context.Context, limit int) ([]*models.Contestant, error)

	// IncrementVote calls the server-side increment_vote function.
	IncrementVote(ctx context.Context, contestantID uuid.UUID) error
}

type contestRepository struct {
	DB *sql.DB
}

func NewContestRepo(db *sql.DB) ContestRepository {
	return &contestRepository{DB: db}
}

func (r *contestRepository) CreateEdition(ctx context.Context, edition *models.ContestEdition) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO contests (name, start_date, end_date, status) VALUES ($1, $2, $3, $4) RETURNING id, created_at`

	return mapError(r.DB.QueryRowContext(dbCtx, query, edition.Name, edition.StartDate, edition.EndDate, edition.Status).Scan(&edition.ID, &edition.CreatedAt))
}

func (r *contestRepository) LatestEdition(ctx context.Context) (*models.ContestEdition, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	edition := &models.ContestEdition{}

	var winner uuid.NullUUID

	query := `SELECT id, name, start_date, end_date, status, winner_id, created_at FROM contests ORDER BY created_at DESC LIMIT 1`

	err := r.DB.QueryRowContext(dbCtx, query).Scan(&edition.ID, &edition.Name, &edition.StartDate, &edition.EndDate, &edition.Status, &winner, &edition.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	if winner.Valid {
		edition.WinnerID = &winner.UUID
	}

	return edition, nil
}

const contestantColumns = `id, contest_id, name, bio, photo_url, soundcloud_url, instagram_url, total_votes, created_at`

func scanContestant(row rowScanner) (*models.Contestant, error) {
	c := &models.Contestant{}

	err := row.Scan(&c.ID, &c.ContestID, &c.Name, &c.Bio, &c.PhotoURL, &c.SoundcloudURL, &c.InstagramURL, &c.TotalVotes, &c.CreatedAt)
	if err != nil {
		return nil, err
	}

	return c, nil
}

func (r *contestRepository) CreateContestant(ctx context.Context, contestant *models.Contestant) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO contestants (contest_id, name, bio, photo_url, soundcloud_url, instagram_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, total_votes, created_at`

	err := r.DB.QueryRowContext(dbCtx, query, contestant.ContestID, contestant.Name, contestant.Bio, contestant.PhotoURL, contestant.SoundcloudURL, contestant.InstagramURL).
		Scan(&contestant.ID, &contestant.TotalVotes, &contestant.CreatedAt)

	return mapError(err)
}

func (r *contestRepository) GetContestantByID(ctx context.Context, id uuid.UUID) (*models.Contestant, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + contestantColumns + ` FROM contestants WHERE id = $1`

	c, err := scanContestant(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		return nil, fmt.Errorf("querying contestant: %w", mapError(err))
	}

	return c, nil
}

// UpdateContestant never writes total_votes; the tally belongs to increment_vote.
func (r *contestRepository) UpdateContestant(ctx context.Context, contestant *models.Contestant) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE contestants SET name = $1, bio = $2, photo_url = $3, soundcloud_url = $4, instagram_url = $5
		WHERE id = $6
		RETURNING total_votes`

	return mapError(r.DB.QueryRowContext(dbCtx, query, contestant.Name, contestant.Bio, contestant.PhotoURL, contestant.SoundcloudURL, contestant.InstagramURL, contestant.ID).
		Scan(&contestant.TotalVotes))
}

func (r *contestRepository) DeleteContestant(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	return execAffectingOne(dbCtx, r.DB, `DELETE FROM contestants WHERE id = $1`, id)
}

func (r *contestRepository) ListContestants(ctx context.Context) ([]*models.Contestant, error) {
	return r.list(ctx, `SELECT `+contestantColumns+` FROM contestants ORDER BY name`)
}

func (r *contestRepository) TopContestants(ctx context.Context, limit int) ([]*models.Contestant, error) {
	return r.list(ctx, `SELECT `+contestantColumns+` FROM contestants ORDER BY total_votes DESC LIMIT $1`, limit)
}

func (r *contestRepository) list(ctx context.Context, query string, args ...any) ([]*models.Contestant, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	contestants := []*models.Contestant{}

	for rows.Next() {
		c, err := scanContestant(rows)
		if err != nil {
			return nil, err
		}

		contestants = append(contestants, c)
	}

	return contestants, rows.Err()
}

func (r *contestRepository) IncrementVote(ctx context.Context, contestantID uuid.UUID) error {
	_, err := r.DB.ExecContext(ctx, `SELECT increment_vote($1)`, contestantID)
	if err != nil {
		return fmt.Errorf("increment_vote: %w", err)
	}

	return nil
}
