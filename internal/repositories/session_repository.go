package repository

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

const (
	magicLinkPrefix = "magic_link:"
	revokedPrefix   = "revoked_session:"
)

// MagicLink is the pending sign-in challenge behind an emailed token.
type MagicLink struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

type SessionRepository interface {
	// SaveMagicLink stores the challenge under a hash of token; the raw token is never persisted.
	SaveMagicLink(ctx context.Context, token string, link MagicLink, ttl time.Duration) error
	// ConsumeMagicLink reads and deletes the challenge. Unknown, expired or
	// already used tokens return ErrNotFound.
	ConsumeMagicLink(ctx context.Context, token string) (*MagicLink, error)
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type sessionRepository struct {
	client *redis.Client
}

func NewSessionRepo(client *redis.Client) SessionRepository {
	return &sessionRepository{client: client}
}

func MagicLinkKey(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return magicLinkPrefix + hex.EncodeToString(sum[:])
}

func (r *sessionRepository) SaveMagicLink(ctx context.Context, token string, link MagicLink, ttl time.Duration) error {
	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("encoding magic link: %w", err)
	}

	if err := r.client.Set(ctx, MagicLinkKey(token), data, ttl).Err(); err != nil {
		return fmt.Errorf("storing magic link: %w", err)
	}

	return nil
}

func (r *sessionRepository) ConsumeMagicLink(ctx context.Context, token string) (*MagicLink, error) {
	data, err := r.client.GetDel(ctx, MagicLinkKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("reading magic link: %w", err)
	}

	var link MagicLink
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, fmt.Errorf("decoding magic link: %w", err)
	}

	return &link, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	return r.client.Set(ctx, revokedPrefix+tokenID, "1", ttl).Err()
}

func (r *sessionRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}
