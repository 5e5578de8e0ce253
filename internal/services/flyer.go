package service

import (
	"bytes"
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	"github.com/munera-collective/munera-platform/internal/errors"
	"github.com/munera-collective/munera-platform/internal/flyer"
	"github.com/munera-collective/munera-platform/internal/models"
	"github.com/munera-collective/munera-platform/pkg/storage"
)

// Renderer produces a PNG flyer and its download name.
type Renderer interface {
	RenderPNG(ctx context.Context, req models.FlyerRequest) ([]byte, string, error)
}

type FlyerService interface {
	Render(ctx context.Context, req *models.FlyerRequest) ([]byte, string, error)
	// Save renders the flyer and stores it in the flyers bucket.
	Save(ctx context.Context, req *models.FlyerRequest) (*models.StoredFile, error)
	ListFlyers(ctx context.Context) ([]models.StoredFile, error)
	UploadFlyer(ctx context.Context, upload *Upload) (*models.StoredFile, error)
	DeleteFlyer(ctx context.Context, name string) error
}

type flyerService struct {
	renderer Renderer
	storage  storage.Storage
}

func NewFlyerService(renderer Renderer, storage storage.Storage) FlyerService {
	return &flyerService{renderer: renderer, storage: storage}
}

func (s *flyerService) Render(ctx context.Context, req *models.FlyerRequest) ([]byte, string, error) {
	data, name, err := s.renderer.RenderPNG(ctx, *req)
	if err != nil {
		return nil, "", errors.InternalError("Failed to render flyer").WithError(err)
	}

	return data, name, nil
}

func (s *flyerService) Save(ctx context.Context, req *models.FlyerRequest) (*models.StoredFile, error) {
	data, _, err := s.Render(ctx, req)
	if err != nil {
		return nil, err
	}

	// the timestamp keeps re-renders of the same title apart
	name := fmt.Sprintf("%d-%s", time.Now().Unix(), flyer.FileName(req.Title))

	url, err := s.storage.Upload(ctx, storage.Flyers, name, bytes.NewReader(data), int64(len(data)), "image/png")
	if err != nil {
		return nil, errors.ThirdPartyError("Failed to upload flyer").WithError(err)
	}

	return &models.StoredFile{Name: name, URL: url, Size: int64(len(data))}, nil
}

func (s *flyerService) ListFlyers(ctx context.Context) ([]models.StoredFile, error) {
	files, err := s.storage.List(ctx, storage.Flyers, "")
	if err != nil {
		return nil, errors.ThirdPartyError("Failed to list flyers").WithError(err)
	}

	return files, nil
}

func (s *flyerService) UploadFlyer(ctx context.Context, upload *Upload) (*models.StoredFile, error) {
	if err := requireImage(upload); err != nil {
		return nil, err
	}

	name := upload.objectName("")

	url, err := s.storage.Upload(ctx, storage.Flyers, name, upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		return nil, errors.ThirdPartyError("Failed to upload flyer").WithError(err)
	}

	return &models.StoredFile{Name: name, URL: url, Size: upload.Size}, nil
}

func (s *flyerService) DeleteFlyer(ctx context.Context, name string) error {
	if err := s.storage.Delete(ctx, storage.Flyers, name); err != nil {
		if stdErrors.Is(err, storage.ErrInvalidPath) {
			return errors.BadRequestError("Invalid flyer name").WithError(err)
		}

		return errors.ThirdPartyError("Failed to delete flyer").WithError(err)
	}

	return nil
}
