package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/errors"
	"github.com/munera-collective/munera-platform/internal/models"
	"github.com/munera-collective/munera-platform/internal/utils/response"
)

type contextKey uuid.UUID

var UserContextKey = contextKey(uuid.New())

// RevocationChecker reports whether a session id (jti) has been signed out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AdminPolicy decides which authenticated emails may reach admin routes.
type AdminPolicy interface {
	IsAdmin(email string) bool
}

type AuthMiddleware struct {
	jwtKey  []byte
	revoked RevocationChecker
	admins  AdminPolicy
}

func NewAuthMiddleware(jwtKey []byte, revoked RevocationChecker, admins AdminPolicy) *AuthMiddleware {

	return &AuthMiddleware{jwtKey: jwtKey, revoked: revoked, admins: admins}

}

// Authenticate rejects requests without a valid, unrevoked bearer token.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))
			return
		}

		claims, appErr := m.parse(r.Context(), authHeader)
		if appErr != nil {
			response.Error(w, appErr)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.withClaims(r.Context(), claims)))
	}
}

// OptionalAuthenticate attaches the session when a valid token is present and
// otherwise lets the request through anonymously.
func (m *AuthMiddleware) OptionalAuthenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, appErr := m.parse(r.Context(), authHeader)
		if appErr != nil {
			LoggerFromContext(r.Context()).Debug("Ignoring invalid optional token", slog.String("reason", appErr.Message))
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.withClaims(r.Context(), claims)))
	}
}

// RequireAdmin authenticates and then checks the admin allow-list.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.HandlerFunc {
	return m.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		claims, _ := ClaimsFromContext(r.Context())

		if m.admins == nil || !m.admins.IsAdmin(claims.Email) {
			LoggerFromContext(r.Context()).Warn("Admin access denied", slog.String("email", claims.Email))
			response.Error(w, errors.ForbiddenError("Admin access required"))
			return
		}

		next.ServeHTTP(w, r)
	}))
}

func (m *AuthMiddleware) parse(ctx context.Context, authHeader string) (*models.Claims, *errors.AppError) {

	logger := LoggerFromContext(ctx)

	// Token is of format : "Bearer <token>"
	tokenParts := strings.Split(authHeader, " ")

	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		logger.Warn("Invalid authorization header format")
		return nil, errors.UnauthorizedError("Invalid authorization format")
	}

	claims := &models.Claims{}

	token, err := jwt.ParseWithClaims(tokenParts[1], claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			logger.Error("Unexpected signing method used in JWT", slog.Any("alg", t.Header["alg"]))
			return nil, errors.BadRequestError("unexpected signing method")
		}
		return m.jwtKey, nil
	})

	if err != nil {
		logger.Warn("JWT parsing failed", slog.String("error", err.Error()))
		return nil, errors.UnauthorizedError("Invalid or expired token")
	}

	if !token.Valid {
		logger.Warn("Invalid token")
		return nil, errors.UnauthorizedError("Invalid token")
	}

	if m.revoked != nil && claims.ID != "" {
		revoked, err := m.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			logger.Error("Failed to check session revocation", slog.String("error", err.Error()))
			return nil, errors.InternalError("Failed to verify session").WithError(err)
		}

		if revoked {
			logger.Warn("Revoked session used", slog.String("userId", claims.UserID.String()))
			return nil, errors.UnauthorizedError("Session has been signed out")
		}
	}

	return claims, nil
}

func (m *AuthMiddleware) withClaims(ctx context.Context, claims *models.Claims) context.Context {

	ctx = context.WithValue(ctx, UserContextKey, claims)

	requestScopedLogger := LoggerFromContext(ctx).With(slog.String("userId", claims.UserID.String()))
	requestScopedLogger.Info("User authenticated")

	return WithLogger(ctx, requestScopedLogger)
}

func ClaimsFromContext(ctx context.Context) (*models.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*models.Claims)
	return claims, ok && claims != nil
}
