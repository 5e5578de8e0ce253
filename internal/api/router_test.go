package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/api"
	"github.com/munera-collective/munera-platform/internal/api/handlers"
	"github.com/munera-collective/munera-platform/internal/api/middleware"
	"github.com/munera-collective/munera-platform/internal/config"
	"github.com/munera-collective/munera-platform/internal/models"
	"github.com/munera-collective/munera-platform/internal/services/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var routerJwtKey = []byte("router-secret-key-1234567890123")

type staticBoard struct{}

func (staticBoard) Top() []models.Contestant { return []models.Contestant{{Name: "Atlas", TotalVotes: 3}} }

func (staticBoard) Watch() (<-chan []models.Contestant, func()) {
	ch := make(chan []models.Contestant)
	return ch, func() {}
}

type routerDeps struct {
	auth    *mocks.AuthService
	product *mocks.ProductService
}

func newTestRouter(t *testing.T) (http.Handler, routerDeps) {
	t.Helper()

	deps := routerDeps{
		auth:    mocks.NewAuthService(t),
		product: mocks.NewProductService(t),
	}

	security := &config.Security{AdminEmails: []string{"admin@munera.fr"}}

	router := api.NewRouter(api.Handlers{
		Auth:        handlers.NewAuthHandler(deps.auth, 900),
		Cart:        handlers.NewCartHandler(mocks.NewCartService(t), time.Hour, false),
		Checkout:    handlers.NewCheckoutHandler(mocks.NewCheckoutService(t)),
		Product:     handlers.NewProductHandler(deps.product),
		Event:       handlers.NewEventHandler(mocks.NewEventService(t), mocks.NewMediaService(t)),
		Contest:     handlers.NewContestHandler(mocks.NewContestService(t)),
		Leaderboard: handlers.NewLeaderboardHandler(staticBoard{}, time.Minute),
		Flyer:       handlers.NewFlyerHandler(mocks.NewFlyerService(t)),
	}, middleware.NewAuthMiddleware(routerJwtKey, deps.auth, security))

	return middleware.Logging(router), deps
}

func signedToken(t *testing.T, email, jti string) string {
	t.Helper()

	claims := &models.Claims{
		UserID: uuid.New(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(routerJwtKey)
	require.NoError(t, err)

	return token
}

func TestNewRouter(t *testing.T) {
	t.Run("Failure - Admin route without token", func(t *testing.T) {
		// Arrange
		router, _ := newTestRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil)
		rr := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Failure - Admin route with a fan token", func(t *testing.T) {
		// Arrange
		router, deps := newTestRouter(t)
		deps.auth.On("IsRevoked", mock.Anything, "fan-jti").Return(false, nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/products/"+uuid.NewString(), nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, "fan@munera.fr", "fan-jti"))
		rr := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Success - Admin route with an admin token", func(t *testing.T) {
		// Arrange
		router, deps := newTestRouter(t)
		deps.auth.On("IsRevoked", mock.Anything, "admin-jti").Return(false, nil).Once()
		deps.product.On("ListProducts", mock.Anything, false, 1, 12).Return([]*models.Product{}, 0, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/products", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, "Admin@Munera.fr", "admin-jti"))
		rr := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Success - Public leaderboard needs no token", func(t *testing.T) {
		// Arrange
		router, _ := newTestRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil)
		rr := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "Atlas")
	})

	t.Run("Failure - Vote submit requires a session", func(t *testing.T) {
		// Arrange
		router, _ := newTestRouter(t)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/contestants/"+uuid.NewString()+"/vote", nil)
		rr := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("Success - Metrics endpoint", func(t *testing.T) {
		// Arrange
		router, _ := newTestRouter(t)
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		rr := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Unknown method on a known path", func(t *testing.T) {
		// Arrange
		router, _ := newTestRouter(t)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/leaderboard", nil)
		rr := httptest.NewRecorder()

		// Act
		router.ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})
}
