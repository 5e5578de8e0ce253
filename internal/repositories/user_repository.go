package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/models"
	"github.com/munera-collective/munera-platform/internal/utils"
)

type UserRepository interface {
	// UpsertByEmail creates the user on first sign-in and stamps last_sign_in_at.
	UpsertByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) UpsertByEmail(ctx context.Context, email string) (*models.User, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO users (email, last_sign_in_at)
		VALUES ($1, NOW())
		ON CONFLICT (email) DO UPDATE SET last_sign_in_at = NOW()
		RETURNING id, email, created_at, last_sign_in_at`

	user := &models.User{}

	err := r.DB.QueryRowContext(dbCtx, query, strings.ToLower(strings.TrimSpace(email))).Scan(&user.ID, &user.Email, &user.CreatedAt, &user.LastSignInAt)
	if err != nil {
		return nil, fmt.Errorf("upserting user: %w", mapError(err))
	}

	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	user := &models.User{}

	query := `SELECT id, email, created_at, last_sign_in_at FROM users WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&user.ID, &user.Email, &user.CreatedAt, &user.LastSignInAt)
	if err != nil {
		return nil, mapError(err)
	}

	return user, nil
}
