package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/api/handlers"
	appErrors "github.com/munera-collective/munera-platform/internal/errors"
	"github.com/munera-collective/munera-platform/internal/models"
	"github.com/munera-collective/munera-platform/internal/services/mocks"
	"github.com/munera-collective/munera-platform/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_RequestMagicLink(t *testing.T) {
	t.Run("Success - Link sent", func(t *testing.T) {
		// Arrange
		authService := mocks.NewAuthService(t)
		handler := handlers.NewAuthHandler(authService, 900)

		authService.On("RequestMagicLink", mock.Anything, "fan@munera.fr", "").Return(nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/auth/magic-link", jsonBody(t, models.MagicLinkRequest{Email: "fan@munera.fr"}), nil)
		rr := httptest.NewRecorder()

		// Act
		handler.RequestMagicLink().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusAccepted, rr.Code)

		var body models.MagicLinkResponse
		resp := decodeData(t, rr.Body.Bytes(), &body)
		assert.True(t, resp.Success)
		assert.Equal(t, 900, body.ExpiresIn)
	})

	t.Run("Failure - Invalid email", func(t *testing.T) {
		// Arrange
		authService := mocks.NewAuthService(t)
		handler := handlers.NewAuthHandler(authService, 900)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/auth/magic-link", jsonBody(t, models.MagicLinkRequest{Email: "not-an-email"}), nil)
		rr := httptest.NewRecorder()

		// Act
		handler.RequestMagicLink().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), appErrors.ErrCodeValidation)
	})

	t.Run("Failure - Rate limited", func(t *testing.T) {
		// Arrange
		authService := mocks.NewAuthService(t)
		handler := handlers.NewAuthHandler(authService, 900)

		authService.On("RequestMagicLink", mock.Anything, "fan@munera.fr", "").
			Return(appErrors.TooManyRequestsError("Please wait 42 seconds")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/auth/magic-link", jsonBody(t, models.MagicLinkRequest{Email: "fan@munera.fr"}), nil)
		rr := httptest.NewRecorder()

		// Act
		handler.RequestMagicLink().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.Contains(t, rr.Body.String(), "42 seconds")
	})
}

func TestAuthHandler_Callback(t *testing.T) {
	t.Run("Success - Session returned", func(t *testing.T) {
		// Arrange
		authService := mocks.NewAuthService(t)
		handler := handlers.NewAuthHandler(authService, 900)

		session := &models.Session{Token: "jwt", ExpiresIn: 3600, User: &models.User{ID: uuid.New(), Email: "fan@munera.fr"}}
		authService.On("VerifyMagicLink", mock.Anything, "abc").Return(session, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/auth/callback?token=abc", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.Callback().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var got models.Session
		decodeData(t, rr.Body.Bytes(), &got)
		assert.Equal(t, "jwt", got.Token)
		assert.Equal(t, session.User.ID, got.User.ID)
	})

	t.Run("Success - Redirects back with the token in the fragment", func(t *testing.T) {
		// Arrange
		authService := mocks.NewAuthService(t)
		handler := handlers.NewAuthHandler(authService, 900)

		session := &models.Session{
			Token:      "header.payload.sig",
			ExpiresIn:  3600,
			RedirectTo: "https://munera.fr/contest?c=1",
			User:       &models.User{ID: uuid.New(), Email: "fan@munera.fr"},
		}
		authService.On("VerifyMagicLink", mock.Anything, "abc").Return(session, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/auth/callback?token=abc", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.Callback().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusFound, rr.Code)
		assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

		location, err := url.Parse(rr.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "munera.fr", location.Host)
		assert.Equal(t, "/contest", location.Path)
		assert.Equal(t, "c=1", location.RawQuery)
		assert.NotContains(t, location.RawQuery, "header.payload.sig")

		fragment, err := url.ParseQuery(location.Fragment)
		require.NoError(t, err)
		assert.Equal(t, "header.payload.sig", fragment.Get("access_token"))
		assert.Equal(t, "3600", fragment.Get("expires_in"))
		assert.Equal(t, "bearer", fragment.Get("token_type"))
	})

	t.Run("Failure - Missing token", func(t *testing.T) {
		// Arrange
		authService := mocks.NewAuthService(t)
		handler := handlers.NewAuthHandler(authService, 900)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/auth/callback", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.Callback().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - Expired link", func(t *testing.T) {
		// Arrange
		authService := mocks.NewAuthService(t)
		handler := handlers.NewAuthHandler(authService, 900)

		authService.On("VerifyMagicLink", mock.Anything, "old").Return(nil, appErrors.UnauthorizedError("Link expired")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/auth/callback?token=old", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.Callback().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAuthHandler_SessionAndSignOut(t *testing.T) {
	t.Run("Success - Current session", func(t *testing.T) {
		// Arrange
		authService := mocks.NewAuthService(t)
		handler := handlers.NewAuthHandler(authService, 900)
		userID := uuid.New()

		authService.On("CurrentSession", mock.Anything, mock.MatchedBy(func(c *models.Claims) bool {
			return c.UserID == userID
		})).Return(&models.Session{User: &models.User{ID: userID}}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/auth/session", nil, userID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.Session().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - No claims", func(t *testing.T) {
		// Arrange
		authService := mocks.NewAuthService(t)
		handler := handlers.NewAuthHandler(authService, 900)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/auth/session", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.Session().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Success - Signed out", func(t *testing.T) {
		// Arrange
		authService := mocks.NewAuthService(t)
		handler := handlers.NewAuthHandler(authService, 900)
		userID := uuid.New()

		authService.On("SignOut", mock.Anything, mock.AnythingOfType("*models.Claims")).Return(nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/auth/signout", nil, userID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.SignOut().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Signed out")
	})
}
