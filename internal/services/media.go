package service

import (
	"context"
	stdErrors "errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/errors"
	"github.com/munera-collective/munera-platform/internal/logging"
	"github.com/munera-collective/munera-platform/internal/models"
	repository "github.com/munera-collective/munera-platform/internal/repositories"
	"github.com/munera-collective/munera-platform/pkg/storage"
)

// MediaService manages the event gallery.
type MediaService interface {
	ListMedia(ctx context.Context, eventID uuid.UUID) ([]*models.Media, error)
	UploadPhoto(ctx context.Context, eventID uuid.UUID, upload *Upload) (*models.Media, error)
	AddVideo(ctx context.Context, eventID uuid.UUID, url string) (*models.Media, error)
	DeleteMedia(ctx context.Context, id uuid.UUID) error
}

type mediaService struct {
	media   repository.MediaRepository
	events  repository.EventRepository
	storage storage.Storage
}

func NewMediaService(media repository.MediaRepository, events repository.EventRepository, storage storage.Storage) MediaService {
	return &mediaService{media: media, events: events, storage: storage}
}

func (s *mediaService) ensureEvent(ctx context.Context, eventID uuid.UUID) error {
	if _, err := s.events.GetEventByID(ctx, eventID); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Event not found").WithError(err)
		}

		return errors.DatabaseError("Failed to fetch event").WithError(err)
	}

	return nil
}

func (s *mediaService) ListMedia(ctx context.Context, eventID uuid.UUID) ([]*models.Media, error) {
	items, err := s.media.ListMediaByEvent(ctx, eventID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch media").WithError(err)
	}

	return items, nil
}

// UploadPhoto stores the photo under event-photos/<event id>/ and records it.
// The object is removed again when the row cannot be written.
func (s *mediaService) UploadPhoto(ctx context.Context, eventID uuid.UUID, upload *Upload) (*models.Media, error) {
	if err := requireImage(upload); err != nil {
		return nil, err
	}

	if err := s.ensureEvent(ctx, eventID); err != nil {
		return nil, err
	}

	name := upload.objectName(eventID.String())

	url, err := s.storage.Upload(ctx, storage.EventPhotos, name, upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		return nil, errors.ThirdPartyError("Failed to upload photo").WithError(err)
	}

	media := &models.Media{EventID: eventID, URL: url, Type: models.MediaTypePhoto}

	if err := s.media.CreateMedia(ctx, media); err != nil {
		if delErr := s.storage.Delete(ctx, storage.EventPhotos, name); delErr != nil {
			logging.FromContext(ctx).Error("Failed to remove orphaned photo", slog.String("name", name), slog.String("error", delErr.Error()))
		}

		return nil, errors.DatabaseError("Failed to save photo").WithError(err)
	}

	return media, nil
}

func (s *mediaService) AddVideo(ctx context.Context, eventID uuid.UUID, url string) (*models.Media, error) {
	if err := s.ensureEvent(ctx, eventID); err != nil {
		return nil, err
	}

	media := &models.Media{EventID: eventID, URL: url, Type: models.MediaTypeVideo}

	if err := s.media.CreateMedia(ctx, media); err != nil {
		return nil, errors.DatabaseError("Failed to save video").WithError(err)
	}

	return media, nil
}

// DeleteMedia removes the row and, for photos we host, the stored object.
func (s *mediaService) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	media, err := s.media.GetMediaByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Media not found").WithError(err)
		}

		return errors.DatabaseError("Failed to fetch media").WithError(err)
	}

	if media.Type == models.MediaTypePhoto {
		if name := storage.NameFromURL(s.storage, storage.EventPhotos, media.URL); name != "" {
			if err := s.storage.Delete(ctx, storage.EventPhotos, name); err != nil {
				return errors.ThirdPartyError("Failed to delete photo").WithError(err)
			}
		}
	}

	if err := s.media.DeleteMedia(ctx, id); err != nil {
		return errors.DatabaseError("Failed to delete media").WithError(err)
	}

	return nil
}
