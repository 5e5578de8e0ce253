package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	repository "github.com/munera-collective/munera-platform/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUserRepo(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewUserRepo(db)
	assert.NotNil(t, repo, "NewUserRepo should return a non-nil repository")
}

func TestUserRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewUserRepo(db)
	ctx := t.Context()

	upsertSQL := regexp.QuoteMeta(`INSERT INTO users (email, last_sign_in_at) VALUES ($1, NOW()) ON CONFLICT (email) DO UPDATE SET last_sign_in_at = NOW()`)

	t.Run("UpsertByEmail", func(t *testing.T) {
		t.Run("Success - email is normalised", func(t *testing.T) {
			// Arrange
			id := uuid.New()
			now := time.Now()

			mock.ExpectQuery(upsertSQL).
				WithArgs("voter@example.com").
				WillReturnRows(sqlmock.NewRows([]string{"id", "email", "created_at", "last_sign_in_at"}).
					AddRow(id, "voter@example.com", now, now))

			// Act
			user, err := repo.UpsertByEmail(ctx, "  Voter@Example.com ")

			// Assert
			require.NoError(t, err)
			assert.Equal(t, id, user.ID)
			assert.Equal(t, "voter@example.com", user.Email)
			require.NotNil(t, user.LastSignInAt)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Error", func(t *testing.T) {
			dbError := errors.New("connection reset")
			mock.ExpectQuery(upsertSQL).WithArgs("voter@example.com").WillReturnError(dbError)

			user, err := repo.UpsertByEmail(ctx, "voter@example.com")

			require.Error(t, err)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, dbError)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("GetUserByID", func(t *testing.T) {
		getSQL := regexp.QuoteMeta(`SELECT id, email, created_at, last_sign_in_at FROM users WHERE id = $1`)

		t.Run("Success", func(t *testing.T) {
			id := uuid.New()
			mock.ExpectQuery(getSQL).WithArgs(id).
				WillReturnRows(sqlmock.NewRows([]string{"id", "email", "created_at", "last_sign_in_at"}).
					AddRow(id, "voter@example.com", time.Now(), nil))

			user, err := repo.GetUserByID(ctx, id)

			require.NoError(t, err)
			assert.Equal(t, "voter@example.com", user.Email)
			assert.Nil(t, user.LastSignInAt)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("NotFound", func(t *testing.T) {
			id := uuid.New()
			mock.ExpectQuery(getSQL).WithArgs(id).WillReturnError(sql.ErrNoRows)

			_, err := repo.GetUserByID(ctx, id)

			assert.ErrorIs(t, err, repository.ErrNotFound)
			assert.ErrorIs(t, err, sql.ErrNoRows)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}
