package repository_test

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/models"
	repository "github.com/munera-collective/munera-platform/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mediaCols = []string{"id", "event_id", "url", "type", "created_at"}

func TestMediaRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewMediaRepo(db)
	ctx := t.Context()
	eventID := uuid.New()

	t.Run("CreateMedia", func(t *testing.T) {
		// Arrange
		media := &models.Media{EventID: eventID, URL: "https://youtu.be/abc", Type: models.MediaTypeVideo}
		newID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO media (event_id, url, type)`)).
			WithArgs(eventID, media.URL, models.MediaTypeVideo).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(newID, time.Now()))

		// Act
		err := repo.CreateMedia(ctx, media)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, newID, media.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetMediaByID", func(t *testing.T) {
		getSQL := regexp.QuoteMeta(`FROM media WHERE id = $1`)

		t.Run("Success", func(t *testing.T) {
			id := uuid.New()
			mock.ExpectQuery(getSQL).WithArgs(id).
				WillReturnRows(sqlmock.NewRows(mediaCols).AddRow(id, eventID, "https://cdn.munera.fr/gallery/a.jpg", "photo", time.Now()))

			media, err := repo.GetMediaByID(ctx, id)

			require.NoError(t, err)
			assert.Equal(t, models.MediaTypePhoto, media.Type)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Not found", func(t *testing.T) {
			id := uuid.New()
			mock.ExpectQuery(getSQL).WithArgs(id).WillReturnError(sql.ErrNoRows)

			media, err := repo.GetMediaByID(ctx, id)

			assert.Nil(t, media)
			assert.ErrorIs(t, err, repository.ErrNotFound)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("ListMediaByEvent", func(t *testing.T) {
		// Arrange
		mock.ExpectQuery(regexp.QuoteMeta(`FROM media WHERE event_id = $1 ORDER BY created_at`)).WithArgs(eventID).
			WillReturnRows(sqlmock.NewRows(mediaCols).
				AddRow(uuid.New(), eventID, "https://cdn.munera.fr/gallery/a.jpg", "photo", time.Now()).
				AddRow(uuid.New(), eventID, "https://youtu.be/abc", "video", time.Now()))

		// Act
		items, err := repo.ListMediaByEvent(ctx, eventID)

		// Assert
		require.NoError(t, err)
		assert.Len(t, items, 2)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteMedia", func(t *testing.T) {
		deleteSQL := regexp.QuoteMeta(`DELETE FROM media WHERE id = $1`)

		t.Run("Success", func(t *testing.T) {
			id := uuid.New()
			mock.ExpectExec(deleteSQL).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))

			require.NoError(t, repo.DeleteMedia(ctx, id))
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Not found", func(t *testing.T) {
			id := uuid.New()
			mock.ExpectExec(deleteSQL).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))

			assert.ErrorIs(t, repo.DeleteMedia(ctx, id), repository.ErrNotFound)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}
