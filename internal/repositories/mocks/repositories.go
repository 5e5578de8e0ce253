// Package mocks holds testify mocks of the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/models"
	repository "github.com/munera-collective/munera-platform/internal/repositories"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

func register(m *mock.Mock, t testingT) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

type UserRepository struct{ mock.Mock }

func NewUserRepository(t testingT) *UserRepository {
	m := &UserRepository{}
	register(&m.Mock, t)
	return m
}

func (m *UserRepository) UpsertByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type SessionRepository struct{ mock.Mock }

func NewSessionRepository(t testingT) *SessionRepository {
	m := &SessionRepository{}
	register(&m.Mock, t)
	return m
}

func (m *SessionRepository) SaveMagicLink(ctx context.Context, token string, link repository.MagicLink, ttl time.Duration) error {
	return m.Called(ctx, token, link, ttl).Error(0)
}

func (m *SessionRepository) ConsumeMagicLink(ctx context.Context, token string) (*repository.MagicLink, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.MagicLink), args.Error(1)
}

func (m *SessionRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, tokenID, ttl).Error(0)
}

func (m *SessionRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

type RateLimitRepository struct{ mock.Mock }

func NewRateLimitRepository(t testingT) *RateLimitRepository {
	m := &RateLimitRepository{}
	register(&m.Mock, t)
	return m
}

func (m *RateLimitRepository) CheckMagicLinkRateLimit(ctx context.Context, email string) (bool, int, int, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}

type ProductRepository struct{ mock.Mock }

func NewProductRepository(t testingT) *ProductRepository {
	m := &ProductRepository{}
	register(&m.Mock, t)
	return m
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *ProductRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ProductRepository) ListProducts(ctx context.Context, activeOnly bool, page, pageSize int) ([]*models.Product, int, error) {
	args := m.Called(ctx, activeOnly, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Product), args.Int(1), args.Error(2)
}

type EventRepository struct{ mock.Mock }

func NewEventRepository(t testingT) *EventRepository {
	m := &EventRepository{}
	register(&m.Mock, t)
	return m
}

func (m *EventRepository) CreateEvent(ctx context.Context, event *models.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *EventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *EventRepository) UpdateEvent(ctx context.Context, event *models.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *EventRepository) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *EventRepository) ListEvents(ctx context.Context, status models.EventStatus) ([]*models.Event, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

type MediaRepository struct{ mock.Mock }

func NewMediaRepository(t testingT) *MediaRepository {
	m := &MediaRepository{}
	register(&m.Mock, t)
	return m
}

func (m *MediaRepository) CreateMedia(ctx context.Context, media *models.Media) error {
	return m.Called(ctx, media).Error(0)
}

func (m *MediaRepository) GetMediaByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Media), args.Error(1)
}

func (m *MediaRepository) ListMediaByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.Media, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Media), args.Error(1)
}

func (m *MediaRepository) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type ContestRepository struct{ mock.Mock }

func NewContestRepository(t testingT) *ContestRepository {
	m := &ContestRepository{}
	register(&m.Mock, t)
	return m
}

func (m *ContestRepository) CreateEdition(ctx context.Context, edition *models.ContestEdition) error {
	return m.Called(ctx, edition).Error(0)
}

func (m *ContestRepository) LatestEdition(ctx context.Context) (*models.ContestEdition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContestEdition), args.Error(1)
}

func (m *ContestRepository) CreateContestant(ctx context.Context, contestant *models.Contestant) error {
	return m.Called(ctx, contestant).Error(0)
}

func (m *ContestRepository) GetContestantByID(ctx context.Context, id uuid.UUID) (*models.Contestant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contestant), args.Error(1)
}

func (m *ContestRepository) UpdateContestant(ctx context.Context, contestant *models.Contestant) error {
	return m.Called(ctx, contestant).Error(0)
}

func (m *ContestRepository) DeleteContestant(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ContestRepository) ListContestants(ctx context.Context) ([]*models.Contestant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Contestant), args.Error(1)
}

func (m *ContestRepository) TopContestants(ctx context.Context, limit int) ([]*models.Contestant, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Contestant), args.Error(1)
}

func (m *ContestRepository) IncrementVote(ctx context.Context, contestantID uuid.UUID) error {
	return m.Called(ctx, contestantID).Error(0)
}

type VoteRepository struct{ mock.Mock }

func NewVoteRepository(t testingT) *VoteRepository {
	m := &VoteRepository{}
	register(&m.Mock, t)
	return m
}

func (m *VoteRepository) FindVote(ctx context.Context, userID, contestID uuid.UUID) (*models.Vote, error) {
	args := m.Called(ctx, userID, contestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Vote), args.Error(1)
}

func (m *VoteRepository) CreateVote(ctx context.Context, vote *models.Vote) error {
	return m.Called(ctx, vote).Error(0)
}
