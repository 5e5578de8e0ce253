package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/api/handlers"
	appErrors "github.com/munera-collective/munera-platform/internal/errors"
	"github.com/munera-collective/munera-platform/internal/models"
	"github.com/munera-collective/munera-platform/internal/services/mocks"
	"github.com/munera-collective/munera-platform/internal/testutils"
	"github.com/munera-collective/munera-platform/internal/voting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestContestHandler_Contestants(t *testing.T) {
	t.Run("Success - Listed", func(t *testing.T) {
		// Arrange
		contestService := mocks.NewContestService(t)
		handler := handlers.NewContestHandler(contestService)

		contestService.On("ListContestants", mock.Anything).Return([]*models.Contestant{{ID: uuid.New(), Name: "Atlas", TotalVotes: 12}}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/contestants", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.ListContestants().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var got []models.Contestant
		decodeData(t, rr.Body.Bytes(), &got)
		require.Len(t, got, 1)
		assert.Equal(t, int64(12), got[0].TotalVotes)
	})

	t.Run("Failure - Contestant not found", func(t *testing.T) {
		// Arrange
		contestService := mocks.NewContestService(t)
		handler := handlers.NewContestHandler(contestService)
		id := uuid.New()

		contestService.On("GetContestant", mock.Anything, id).Return(nil, appErrors.NotFoundError("Contestant not found")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/contestants/"+id.String(), nil, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		// Act
		handler.GetContestant().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestContestHandler_VoteStatus(t *testing.T) {
	id := uuid.New()

	t.Run("Success - Anonymous caller", func(t *testing.T) {
		// Arrange
		contestService := mocks.NewContestService(t)
		handler := handlers.NewContestHandler(contestService)

		contestService.On("VoteStatus", mock.Anything, id, (*voting.Session)(nil)).
			Return(&models.VoteStatus{ContestantID: id, State: voting.Unauthenticated.String()}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/contestants/"+id.String()+"/vote", nil, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		// Act
		handler.VoteStatus().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var got models.VoteStatus
		decodeData(t, rr.Body.Bytes(), &got)
		assert.Equal(t, "unauthenticated", got.State)
	})

	t.Run("Success - Signed-in caller", func(t *testing.T) {
		// Arrange
		contestService := mocks.NewContestService(t)
		handler := handlers.NewContestHandler(contestService)
		userID := uuid.New()

		contestService.On("VoteStatus", mock.Anything, id, &voting.Session{UserID: userID, Email: "voter@example.com"}).
			Return(&models.VoteStatus{ContestantID: id, State: voting.CanVote.String()}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/contestants/"+id.String()+"/vote", nil, userID, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		// Act
		handler.VoteStatus().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "can_vote")
	})
}

func TestContestHandler_VoteLogin(t *testing.T) {
	id := uuid.New()

	t.Run("Success - Link requested", func(t *testing.T) {
		// Arrange
		contestService := mocks.NewContestService(t)
		handler := handlers.NewContestHandler(contestService)
		body := models.VoteLoginRequest{Email: "fan@munera.fr"}

		contestService.On("RequestVoteLogin", mock.Anything, id, &body).
			Return(&models.VoteStatus{ContestantID: id, State: voting.AwaitingEmailLink.String()}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/contestants/"+id.String()+"/vote/login", jsonBody(t, body), map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		// Act
		handler.RequestVoteLogin().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusAccepted, rr.Code)
		assert.Contains(t, rr.Body.String(), "awaiting_email_link")
	})

	t.Run("Success - Await applies a deadline", func(t *testing.T) {
		// Arrange
		contestService := mocks.NewContestService(t)
		handler := handlers.NewContestHandler(contestService)

		contestService.On("AwaitVoteSession", mock.MatchedBy(func(ctx context.Context) bool {
			deadline, ok := ctx.Deadline()
			return ok && time.Until(deadline) <= 5*time.Second
		}), id, "fan@munera.fr").Return(&models.VoteStatus{ContestantID: id, State: voting.CanVote.String()}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/contestants/"+id.String()+"/vote/await?email=fan@munera.fr&timeout=5", nil, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		// Act
		handler.AwaitVote().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "can_vote")
	})

	t.Run("Failure - Await without email", func(t *testing.T) {
		// Arrange
		contestService := mocks.NewContestService(t)
		handler := handlers.NewContestHandler(contestService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/contestants/"+id.String()+"/vote/await", nil, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		// Act
		handler.AwaitVote().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestContestHandler_SubmitVote(t *testing.T) {
	id := uuid.New()

	t.Run("Success - Vote recorded with forwarded IP", func(t *testing.T) {
		// Arrange
		contestService := mocks.NewContestService(t)
		handler := handlers.NewContestHandler(contestService)
		userID := uuid.New()

		contestService.On("SubmitVote", mock.Anything, id, voting.Session{UserID: userID, Email: "voter@example.com"}, "203.0.113.7").
			Return(&models.VoteStatus{ContestantID: id, State: voting.VoteSubmitted.String()}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/contestants/"+id.String()+"/vote", nil, userID, map[string]string{"id": id.String()})
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		rr := httptest.NewRecorder()

		// Act
		handler.SubmitVote().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Contains(t, rr.Body.String(), "vote_submitted")
	})

	t.Run("Success - Remote address used without proxy", func(t *testing.T) {
		// Arrange
		contestService := mocks.NewContestService(t)
		handler := handlers.NewContestHandler(contestService)
		userID := uuid.New()

		contestService.On("SubmitVote", mock.Anything, id, mock.Anything, "192.0.2.1").
			Return(&models.VoteStatus{ContestantID: id, State: voting.VoteSubmitted.String()}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/contestants/"+id.String()+"/vote", nil, userID, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		// Act
		handler.SubmitVote().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("Failure - Already voted", func(t *testing.T) {
		// Arrange
		contestService := mocks.NewContestService(t)
		handler := handlers.NewContestHandler(contestService)
		userID := uuid.New()

		contestService.On("SubmitVote", mock.Anything, id, mock.Anything, mock.Anything).Return(nil, appErrors.AlreadyVotedError()).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/contestants/"+id.String()+"/vote", nil, userID, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		// Act
		handler.SubmitVote().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeAlreadyVoted)
	})

	t.Run("Failure - Not signed in", func(t *testing.T) {
		// Arrange
		contestService := mocks.NewContestService(t)
		handler := handlers.NewContestHandler(contestService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/contestants/"+id.String()+"/vote", nil, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		// Act
		handler.SubmitVote().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestContestHandler_Admin(t *testing.T) {
	adminID := uuid.New()

	t.Run("Success - Contestant created", func(t *testing.T) {
		// Arrange
		contestService := mocks.NewContestService(t)
		handler := handlers.NewContestHandler(contestService)
		body := models.CreateContestantRequest{Name: "Atlas", Bio: "Techno from Lyon"}

		contestService.On("CreateContestant", mock.Anything, &body).Return(&models.Contestant{ID: uuid.New(), Name: "Atlas"}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/admin/contestants", jsonBody(t, body), adminID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.CreateContestant().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("Success - Contestant deleted", func(t *testing.T) {
		// Arrange
		contestService := mocks.NewContestService(t)
		handler := handlers.NewContestHandler(contestService)
		id := uuid.New()

		contestService.On("DeleteContestant", mock.Anything, id).Return(nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/admin/contestants/"+id.String(), nil, adminID, map[string]string{"id": id.String()})
		rr := httptest.NewRecorder()

		// Act
		handler.DeleteContestant().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("Failure - Photo not an image", func(t *testing.T) {
		// Arrange
		contestService := mocks.NewContestService(t)
		handler := handlers.NewContestHandler(contestService)
		id := uuid.New()

		contestService.On("UploadPhoto", mock.Anything, id, mock.AnythingOfType("*service.Upload")).
			Return(nil, appErrors.UnsupportedMediaError("Only images are accepted")).Once()

		body, contentType := multipartFile(t, "file", "notes.txt", "text/plain", []byte("hello"))
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/admin/contestants/"+id.String()+"/photo", body, adminID, map[string]string{"id": id.String()})
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		// Act
		handler.UploadContestantPhoto().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)
	})
}
