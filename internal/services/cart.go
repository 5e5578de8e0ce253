package service

import (
	"context"
	stdErrors "errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/cart"
	"github.com/munera-collective/munera-platform/internal/config"
	"github.com/munera-collective/munera-platform/internal/errors"
	"github.com/munera-collective/munera-platform/internal/metrics"
	"github.com/munera-collective/munera-platform/internal/models"
	repository "github.com/munera-collective/munera-platform/internal/repositories"
)

// ProductReader is the catalogue lookup the cart needs.
type ProductReader interface {
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type CartService interface {
	GetCart(ctx context.Context, session string) cart.View
	AddItem(ctx context.Context, session string, req *models.AddItemRequest) (cart.View, error)
	UpdateQuantity(ctx context.Context, session string, req *models.UpdateQuantityRequest) (cart.View, error)
	RemoveItem(ctx context.Context, session string, req *models.RemoveItemRequest) (cart.View, error)
	ClearCart(ctx context.Context, session string) (cart.View, error)
}

type cartService struct {
	storage   cart.Storage
	products  ProductReader
	namespace string
	ttl       time.Duration
}

func NewCartService(storage cart.Storage, products ProductReader, cfg config.Cart) CartService {
	return &cartService{storage: storage, products: products, namespace: cfg.Namespace, ttl: cfg.TTL}
}

func (s *cartService) load(ctx context.Context, session string) *cart.Store {
	return cart.Load(ctx, s.storage, cart.Key(s.namespace, session), s.ttl)
}

func (s *cartService) GetCart(ctx context.Context, session string) cart.View {
	return s.load(ctx, session).Snapshot()
}

func (s *cartService) AddItem(ctx context.Context, session string, req *models.AddItemRequest) (cart.View, error) {
	product, err := s.products.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return cart.View{}, errors.NotFoundError("Product not found").WithError(err)
		}

		if appErr, ok := errors.IsAppError(err); ok {
			return cart.View{}, appErr
		}

		return cart.View{}, errors.DatabaseError("Failed to load product").WithError(err)
	}

	if !product.Active {
		return cart.View{}, errors.BadRequestError("Product is not available")
	}

	variant := strings.ToUpper(strings.TrimSpace(req.Variant))
	if !product.HasVariant(variant) {
		return cart.View{}, errors.ValidationError("Unknown size for this product").WithDetail(req.Variant)
	}

	store := s.load(ctx, session)

	err = store.Add(ctx, cart.Product{ID: product.ID, Name: product.Name, Price: product.Price, Image: product.MainImage()}, variant)
	if err != nil {
		return cart.View{}, errors.ThirdPartyError("Failed to save cart").WithError(err)
	}

	metrics.CartMutations.WithLabelValues("add").Inc()

	return store.Snapshot(), nil
}

func (s *cartService) UpdateQuantity(ctx context.Context, session string, req *models.UpdateQuantityRequest) (cart.View, error) {
	store := s.load(ctx, session)

	if err := store.UpdateQuantity(ctx, req.ProductID, req.Delta, strings.ToUpper(strings.TrimSpace(req.Variant))); err != nil {
		return cart.View{}, errors.ThirdPartyError("Failed to save cart").WithError(err)
	}

	metrics.CartMutations.WithLabelValues("update_quantity").Inc()

	return store.Snapshot(), nil
}

func (s *cartService) RemoveItem(ctx context.Context, session string, req *models.RemoveItemRequest) (cart.View, error) {
	store := s.load(ctx, session)

	if err := store.Remove(ctx, req.ProductID, strings.ToUpper(strings.TrimSpace(req.Variant))); err != nil {
		return cart.View{}, errors.ThirdPartyError("Failed to save cart").WithError(err)
	}

	metrics.CartMutations.WithLabelValues("remove").Inc()

	return store.Snapshot(), nil
}

func (s *cartService) ClearCart(ctx context.Context, session string) (cart.View, error) {
	store := s.load(ctx, session)

	if err := store.Clear(ctx); err != nil {
		return cart.View{}, errors.ThirdPartyError("Failed to save cart").WithError(err)
	}

	metrics.CartMutations.WithLabelValues("clear").Inc()

	return store.Snapshot(), nil
}
