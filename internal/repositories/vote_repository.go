package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/models"
	"github.com/munera-collective/munera-platform/internal/utils"
)

type VoteRepository interface {
	// FindVote returns ErrNotFound when the user has not voted in the contest
	// and ErrMultipleRows when more than one vote exists.
	FindVote(ctx context.Context, userID, contestID uuid.UUID) (*models.Vote, error)
	// CreateVote returns ErrUniqueViolation when the user already voted.
	CreateVote(ctx context.Context, vote *models.Vote) error
}

type voteRepository struct {
	DB *sql.DB
}

func NewVoteRepo(db *sql.DB) VoteRepository {
	return &voteRepository{DB: db}
}

func (r *voteRepository) FindVote(ctx context.Context, userID, contestID uuid.UUID) (*models.Vote, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT id, user_id, contest_id, contestant_id, voted_at, ip_address FROM votes WHERE user_id = $1 AND contest_id = $2 LIMIT 2`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, contestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var found *models.Vote

	for rows.Next() {
		if found != nil {
			return found, ErrMultipleRows
		}

		vote := &models.Vote{}
		if err := rows.Scan(&vote.ID, &vote.UserID, &vote.ContestID, &vote.ContestantID, &vote.VotedAt, &vote.IPAddress); err != nil {
			return nil, err
		}

		found = vote
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if found == nil {
		return nil, ErrNotFound
	}

	return found, nil
}

func (r *voteRepository) CreateVote(ctx context.Context, vote *models.Vote) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO votes (user_id, contest_id, contestant_id, ip_address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, voted_at`

	return mapError(r.DB.QueryRowContext(dbCtx, query, vote.UserID, vote.ContestID, vote.ContestantID, vote.IPAddress).Scan(&vote.ID, &vote.VotedAt))
}
