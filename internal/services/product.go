package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/munera-collective/munera-platform/internal/cache"
	"github.com/munera-collective/munera-platform/internal/errors"
	"github.com/munera-collective/munera-platform/internal/logging"
	"github.com/munera-collective/munera-platform/internal/models"
	repository "github.com/munera-collective/munera-platform/internal/repositories"
	"github.com/munera-collective/munera-platform/pkg/storage"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	ToggleActive(ctx context.Context, id uuid.UUID) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	// ListProducts pages through the catalogue; the public shop passes activeOnly.
	ListProducts(ctx context.Context, activeOnly bool, page, pageSize int) ([]*models.Product, int, error)
	UploadImage(ctx context.Context, id uuid.UUID, upload *Upload) (*models.Product, error)
}

type productService struct {
	repo    repository.ProductRepository
	cache   cache.Cache
	storage storage.Storage
	policy  *bluemonday.Policy
}

func NewProductService(repo repository.ProductRepository, cache cache.Cache, storage storage.Storage) ProductService {
	return &productService{repo: repo, cache: cache, storage: storage, policy: bluemonday.UGCPolicy()}
}

// Upload is a file received from an admin form.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// objectName builds a collision free object name under prefix, keeping the
// upload's extension.
func (u *Upload) objectName(prefix string) string {
	ext := strings.ToLower(path.Ext(u.Name))
	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)

	if prefix == "" {
		return name
	}

	return prefix + "/" + name
}

func requireImage(upload *Upload) error {
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return errors.UnsupportedMediaError("Only image uploads are accepted").WithDetail(upload.ContentType)
	}

	return nil
}

func normalizeInventory(inventory map[string]int) map[string]int {
	if inventory == nil {
		return nil
	}

	out := make(map[string]int, len(inventory))
	for label, qty := range inventory {
		out[strings.ToUpper(strings.TrimSpace(label))] = qty
	}

	return out
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	if !req.Price.IsPositive() {
		return nil, errors.AddValidationError("price", "must be greater than 0")
	}

	product := &models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: s.policy.Sanitize(req.Description),
		Price:       req.Price,
		Images:      req.Images,
		Category:    req.Category,
		Inventory:   normalizeInventory(req.Inventory),
		Active:      true,
	}

	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, errors.DatabaseError("Failed to create product").WithError(err)
	}

	return product, nil
}

// GetProductByID reads through the product cache. Cache errors fall back to the database.
func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	logger := logging.FromContext(ctx)
	key := cache.Key(cache.ProductKeyPrefix, id.String())

	var cached models.Product

	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		logger.Warn("Product cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	} else if found {
		return &cached, nil
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if err := s.cache.Set(ctx, key, product, 0); err != nil {
		logger.Warn("Product cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}

	return product, nil
}

func (s *productService) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Product not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch product").WithError(err)
	}

	return product, nil
}

func (s *productService) save(ctx context.Context, product *models.Product) error {
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Product not found").WithError(err)
		}

		return errors.DatabaseError("Failed to update product").WithError(err)
	}

	s.invalidate(ctx, product.ID)

	return nil
}

func (s *productService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.cache.Delete(ctx, cache.Key(cache.ProductKeyPrefix, id.String())); err != nil {
		logging.FromContext(ctx).Warn("Product cache invalidation failed", slog.String("productId", id.String()), slog.String("error", err.Error()))
	}
}

func (s *productService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = s.policy.Sanitize(*req.Description)
	}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, errors.AddValidationError("price", "must be greater than 0")
		}
		product.Price = *req.Price
	}
	if req.Images != nil {
		product.Images = req.Images
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Inventory != nil {
		product.Inventory = normalizeInventory(req.Inventory)
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *productService) ToggleActive(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Active = !product.Active

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Product not found").WithError(err)
		}

		return errors.DatabaseError("Failed to delete product").WithError(err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *productService) ListProducts(ctx context.Context, activeOnly bool, page, pageSize int) ([]*models.Product, int, error) {
	products, total, err := s.repo.ListProducts(ctx, activeOnly, page, pageSize)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	return products, total, nil
}

// UploadImage stores the image in the product-images bucket and appends its URL.
func (s *productService) UploadImage(ctx context.Context, id uuid.UUID, upload *Upload) (*models.Product, error) {
	if err := requireImage(upload); err != nil {
		return nil, err
	}

	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.Upload(ctx, storage.ProductImages, upload.objectName(id.String()), upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		return nil, errors.ThirdPartyError("Failed to upload image").WithError(err)
	}

	product.Images = append(product.Images, url)

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}
