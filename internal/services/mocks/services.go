// Package mocks holds testify mocks of the service interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/cart"
	"github.com/munera-collective/munera-platform/internal/models"
	service "github.com/munera-collective/munera-platform/internal/services"
	"github.com/munera-collective/munera-platform/internal/voting"
	"github.com/munera-collective/munera-platform/pkg/stripe"
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

type AuthService struct{ mock.Mock }

func NewAuthService(t testingT) *AuthService {
	m := &AuthService{}
	register(&m.Mock, t)
	return m
}

func (m *AuthService) RequestMagicLink(ctx context.Context, email, redirectTo string) error {
	return m.Called(ctx, email, redirectTo).Error(0)
}

func (m *AuthService) VerifyMagicLink(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *AuthService) CurrentSession(ctx context.Context, claims *models.Claims) (*models.Session, error) {
	args := m.Called(ctx, claims)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *AuthService) SignOut(ctx context.Context, claims *models.Claims) error {
	return m.Called(ctx, claims).Error(0)
}

func (m *AuthService) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *AuthService) Subscribe() (<-chan models.SessionEvent, func()) {
	args := m.Called()
	return args.Get(0).(<-chan models.SessionEvent), args.Get(1).(func())
}

type CartService struct{ mock.Mock }

func NewCartService(t testingT) *CartService {
	m := &CartService{}
	register(&m.Mock, t)
	return m
}

func (m *CartService) GetCart(ctx context.Context, session string) cart.View {
	return m.Called(ctx, session).Get(0).(cart.View)
}

func (m *CartService) AddItem(ctx context.Context, session string, req *models.AddItemRequest) (cart.View, error) {
	args := m.Called(ctx, session, req)
	return args.Get(0).(cart.View), args.Error(1)
}

func (m *CartService) UpdateQuantity(ctx context.Context, session string, req *models.UpdateQuantityRequest) (cart.View, error) {
	args := m.Called(ctx, session, req)
	return args.Get(0).(cart.View), args.Error(1)
}

func (m *CartService) RemoveItem(ctx context.Context, session string, req *models.RemoveItemRequest) (cart.View, error) {
	args := m.Called(ctx, session, req)
	return args.Get(0).(cart.View), args.Error(1)
}

func (m *CartService) ClearCart(ctx context.Context, session string) (cart.View, error) {
	args := m.Called(ctx, session)
	return args.Get(0).(cart.View), args.Error(1)
}

type ProductService struct{ mock.Mock }

func NewProductService(t testingT) *ProductService {
	m := &ProductService{}
	register(&m.Mock, t)
	return m
}

func (m *ProductService) product(args mock.Arguments) (*models.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	return m.product(m.Called(ctx, req))
}

func (m *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return m.product(m.Called(ctx, id))
}

func (m *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	return m.product(m.Called(ctx, id, req))
}

func (m *ProductService) ToggleActive(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return m.product(m.Called(ctx, id))
}

func (m *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ProductService) ListProducts(ctx context.Context, activeOnly bool, page, pageSize int) ([]*models.Product, int, error) {
	args := m.Called(ctx, activeOnly, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*models.Product), args.Int(1), args.Error(2)
}

func (m *ProductService) UploadImage(ctx context.Context, id uuid.UUID, upload *service.Upload) (*models.Product, error) {
	return m.product(m.Called(ctx, id, upload))
}

type EventService struct{ mock.Mock }

func NewEventService(t testingT) *EventService {
	m := &EventService{}
	register(&m.Mock, t)
	return m
}

func (m *EventService) event(args mock.Arguments) (*models.Event, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *EventService) ListEvents(ctx context.Context, status models.EventStatus) ([]*models.Event, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

func (m *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return m.event(m.Called(ctx, id))
}

func (m *EventService) CreateEvent(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error) {
	return m.event(m.Called(ctx, req))
}

func (m *EventService) UpdateEvent(ctx context.Context, id uuid.UUID, req *models.UpdateEventRequest) (*models.Event, error) {
	return m.event(m.Called(ctx, id, req))
}

func (m *EventService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *EventService) UploadFlyer(ctx context.Context, id uuid.UUID, upload *service.Upload) (*models.Event, error) {
	return m.event(m.Called(ctx, id, upload))
}

type MediaService struct{ mock.Mock }

func NewMediaService(t testingT) *MediaService {
	m := &MediaService{}
	register(&m.Mock, t)
	return m
}

func (m *MediaService) media(args mock.Arguments) (*models.Media, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Media), args.Error(1)
}

func (m *MediaService) ListMedia(ctx context.Context, eventID uuid.UUID) ([]*models.Media, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Media), args.Error(1)
}

func (m *MediaService) UploadPhoto(ctx context.Context, eventID uuid.UUID, upload *service.Upload) (*models.Media, error) {
	return m.media(m.Called(ctx, eventID, upload))
}

func (m *MediaService) AddVideo(ctx context.Context, eventID uuid.UUID, url string) (*models.Media, error) {
	return m.media(m.Called(ctx, eventID, url))
}

func (m *MediaService) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type FlyerService struct{ mock.Mock }

func NewFlyerService(t testingT) *FlyerService {
	m := &FlyerService{}
	register(&m.Mock, t)
	return m
}

func (m *FlyerService) Render(ctx context.Context, req *models.FlyerRequest) ([]byte, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *FlyerService) Save(ctx context.Context, req *models.FlyerRequest) (*models.StoredFile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoredFile), args.Error(1)
}

func (m *FlyerService) ListFlyers(ctx context.Context) ([]models.StoredFile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StoredFile), args.Error(1)
}

func (m *FlyerService) UploadFlyer(ctx context.Context, upload *service.Upload) (*models.StoredFile, error) {
	args := m.Called(ctx, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoredFile), args.Error(1)
}

func (m *FlyerService) DeleteFlyer(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

type ContestService struct{ mock.Mock }

func NewContestService(t testingT) *ContestService {
	m := &ContestService{}
	register(&m.Mock, t)
	return m
}

func (m *ContestService) contestant(args mock.Arguments) (*models.Contestant, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Contestant), args.Error(1)
}

func (m *ContestService) voteStatus(args mock.Arguments) (*models.VoteStatus, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VoteStatus), args.Error(1)
}

func (m *ContestService) ListContestants(ctx context.Context) ([]*models.Contestant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Contestant), args.Error(1)
}

func (m *ContestService) GetContestant(ctx context.Context, id uuid.UUID) (*models.Contestant, error) {
	return m.contestant(m.Called(ctx, id))
}

func (m *ContestService) CreateContestant(ctx context.Context, req *models.CreateContestantRequest) (*models.Contestant, error) {
	return m.contestant(m.Called(ctx, req))
}

func (m *ContestService) UpdateContestant(ctx context.Context, id uuid.UUID, req *models.UpdateContestantRequest) (*models.Contestant, error) {
	return m.contestant(m.Called(ctx, id, req))
}

func (m *ContestService) DeleteContestant(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ContestService) UploadPhoto(ctx context.Context, id uuid.UUID, upload *service.Upload) (*models.Contestant, error) {
	return m.contestant(m.Called(ctx, id, upload))
}

func (m *ContestService) VoteStatus(ctx context.Context, contestantID uuid.UUID, session *voting.Session) (*models.VoteStatus, error) {
	return m.voteStatus(m.Called(ctx, contestantID, session))
}

func (m *ContestService) RequestVoteLogin(ctx context.Context, contestantID uuid.UUID, req *models.VoteLoginRequest) (*models.VoteStatus, error) {
	return m.voteStatus(m.Called(ctx, contestantID, req))
}

func (m *ContestService) AwaitVoteSession(ctx context.Context, contestantID uuid.UUID, email string) (*models.VoteStatus, error) {
	return m.voteStatus(m.Called(ctx, contestantID, email))
}

func (m *ContestService) SubmitVote(ctx context.Context, contestantID uuid.UUID, session voting.Session, ipAddress string) (*models.VoteStatus, error) {
	return m.voteStatus(m.Called(ctx, contestantID, session, ipAddress))
}

type CheckoutService struct{ mock.Mock }

func NewCheckoutService(t testingT) *CheckoutService {
	m := &CheckoutService{}
	register(&m.Mock, t)
	return m
}

func (m *CheckoutService) Checkout(ctx context.Context, session string, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CheckoutResponse), args.Error(1)
}

func (m *CheckoutService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*stripe.Event, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Event), args.Error(1)
}
