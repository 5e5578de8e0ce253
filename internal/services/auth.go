package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/config"
	"github.com/munera-collective/munera-platform/internal/errors"
	"github.com/munera-collective/munera-platform/internal/logging"
	"github.com/munera-collective/munera-platform/internal/models"
	repository "github.com/munera-collective/munera-platform/internal/repositories"
	"github.com/munera-collective/munera-platform/pkg/sendgrid"
)

const sessionEventBuffer = 8

type AuthService interface {
	RequestMagicLink(ctx context.Context, email, redirectTo string) error
	VerifyMagicLink(ctx context.Context, token string) (*models.Session, error)
	CurrentSession(ctx context.Context, claims *models.Claims) (*models.Session, error)
	SignOut(ctx context.Context, claims *models.Claims) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	// Subscribe streams sign-in and sign-out events until the returned func is called.
	Subscribe() (<-chan models.SessionEvent, func())
}

type authService struct {
	users     repository.UserRepository
	sessions  repository.SessionRepository
	rateLimit repository.RateLimitRepository
	email     sendgrid.EmailService
	security  config.Security

	mu          sync.Mutex
	nextID      uint64
	subscribers map[uint64]chan models.SessionEvent
}

func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, rateLimit repository.RateLimitRepository, email sendgrid.EmailService, security config.Security) AuthService {
	return &authService{
		users:       users,
		sessions:    sessions,
		rateLimit:   rateLimit,
		email:       email,
		security:    security,
		subscribers: map[uint64]chan models.SessionEvent{},
	}
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *authService) RequestMagicLink(ctx context.Context, email, redirectTo string) error {
	logger := logging.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))

	redirectTo = strings.TrimSpace(redirectTo)
	if redirectTo != "" && !s.security.AllowsRedirect(redirectTo) {
		logger.Warn("Rejected sign-in redirect", slog.String("redirectTo", redirectTo))
		return errors.BadRequestError("redirect_to must point at the Munera site")
	}

	allowed, _, retryAfter, err := s.rateLimit.CheckMagicLinkRateLimit(ctx, email)
	if err != nil {
		return errors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return errors.TooManyRequestsError(fmt.Sprintf("Too many sign-in requests. Try again in %d seconds.", retryAfter))
	}

	token, err := newToken()
	if err != nil {
		return errors.InternalError("Failed to generate sign-in link").WithError(err)
	}

	if err := s.sessions.SaveMagicLink(ctx, token, repository.MagicLink{Email: email, RedirectTo: redirectTo}, s.security.MagicLinkTTL); err != nil {
		return errors.ThirdPartyError("Failed to store sign-in link").WithError(err)
	}

	link := strings.TrimSuffix(s.security.PublicBaseURL, "/") + "/api/v1/auth/callback?token=" + url.QueryEscape(token)
	minutes := int(s.security.MagicLinkTTL.Minutes())

	err = s.email.Send(ctx, &models.EmailNotificationRequest{
		To:          email,
		Subject:     "Your Munera Collective sign-in link",
		Content:     fmt.Sprintf("Follow this link to sign in: %s\n\nIt expires in %d minutes.", link, minutes),
		HTMLContent: fmt.Sprintf(`<p><a href="%s">Sign in to Munera Collective</a></p><p>This link expires in %d minutes.</p>`, link, minutes),
	})
	if err != nil {
		return errors.ThirdPartyError("Failed to send sign-in email").WithError(err)
	}

	logger.Info("Magic link sent", slog.String("email", email))

	return nil
}

func (s *authService) VerifyMagicLink(ctx context.Context, token string) (*models.Session, error) {
	link, err := s.sessions.ConsumeMagicLink(ctx, token)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.UnauthorizedError("Sign-in link is invalid or has expired")
		}

		return nil, errors.ThirdPartyError("Failed to verify sign-in link").WithError(err)
	}

	user, err := s.users.UpsertByEmail(ctx, link.Email)
	if err != nil {
		return nil, errors.DatabaseError("Failed to sign in").WithError(err)
	}

	now := time.Now()
	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.security.JWTExpiry())),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.security.JWTKey))
	if err != nil {
		return nil, errors.InternalError("Failed to generate authentication token").WithError(err)
	}

	s.publish(models.SessionEvent{Type: models.SessionSignedIn, UserID: user.ID, Email: user.Email, Claims: claims, At: now})

	session := &models.Session{
		Token:     signed,
		ExpiresIn: int(s.security.JWTExpiry().Seconds()),
		User:      user,
		IsAdmin:   s.security.IsAdmin(user.Email),
	}

	// links stored before the allow-list changed are not followed
	if link.RedirectTo != "" && s.security.AllowsRedirect(link.RedirectTo) {
		session.RedirectTo = link.RedirectTo
	}

	return session, nil
}

func (s *authService) CurrentSession(ctx context.Context, claims *models.Claims) (*models.Session, error) {
	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.UnauthorizedError("User no longer exists").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to load session").WithError(err)
	}

	session := &models.Session{User: user, IsAdmin: s.security.IsAdmin(user.Email)}
	if claims.ExpiresAt != nil {
		session.ExpiresIn = max(int(time.Until(claims.ExpiresAt.Time).Seconds()), 0)
	}

	return session, nil
}

func (s *authService) SignOut(ctx context.Context, claims *models.Claims) error {
	if claims.ID != "" && claims.ExpiresAt != nil {
		if err := s.sessions.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			return errors.ThirdPartyError("Failed to sign out").WithError(err)
		}
	}

	s.publish(models.SessionEvent{Type: models.SessionSignedOut, UserID: claims.UserID, Email: claims.Email, Claims: claims, At: time.Now()})

	return nil
}

func (s *authService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.sessions.IsRevoked(ctx, tokenID)
}

func (s *authService) Subscribe() (<-chan models.SessionEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	ch := make(chan models.SessionEvent, sessionEventBuffer)
	s.subscribers[id] = ch

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			delete(s.subscribers, id)
			close(ch)
		})
	}
}

// publish never blocks; a subscriber with a full buffer misses the event.
func (s *authService) publish(event models.SessionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			slog.Warn("Session event dropped for slow subscriber", slog.String("type", string(event.Type)))
		}
	}
}
