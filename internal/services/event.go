package service

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/munera-collective/munera-platform/internal/errors"
	"github.com/munera-collective/munera-platform/internal/logging"
	"github.com/munera-collective/munera-platform/internal/models"
	repository "github.com/munera-collective/munera-platform/internal/repositories"
	"github.com/munera-collective/munera-platform/pkg/geocoding"
	"github.com/munera-collective/munera-platform/pkg/storage"
)

type EventService interface {
	ListEvents(ctx context.Context, status models.EventStatus) ([]*models.Event, error)
	// GetEvent returns the event with its media.
	GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error)
	CreateEvent(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, req *models.UpdateEventRequest) (*models.Event, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	UploadFlyer(ctx context.Context, id uuid.UUID, upload *Upload) (*models.Event, error)
}

type eventService struct {
	events   repository.EventRepository
	media    repository.MediaRepository
	geocoder geocoding.Geocoder
	storage  storage.Storage
	policy   *bluemonday.Policy
}

func NewEventService(events repository.EventRepository, media repository.MediaRepository, geocoder geocoding.Geocoder, storage storage.Storage) EventService {
	return &eventService{events: events, media: media, geocoder: geocoder, storage: storage, policy: bluemonday.UGCPolicy()}
}

func (s *eventService) ListEvents(ctx context.Context, status models.EventStatus) ([]*models.Event, error) {
	switch status {
	case "", models.EventStatusUpcoming, models.EventStatusPast:
	default:
		return nil, errors.AddValidationError("status", "must be one of [upcoming past]")
	}

	events, err := s.events.ListEvents(ctx, status)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch events").WithError(err)
	}

	return events, nil
}

func (s *eventService) load(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	event, err := s.events.GetEventByID(ctx, id)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Event not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to fetch event").WithError(err)
	}

	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	media, err := s.media.ListMediaByEvent(ctx, id)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch event media").WithError(err)
	}

	event.Media = media

	return event, nil
}

// locate fills missing coordinates from venue and city. A failed lookup
// leaves the event without coordinates.
func (s *eventService) locate(ctx context.Context, event *models.Event) {
	if event.Latitude != nil && event.Longitude != nil {
		return
	}

	event.Latitude, event.Longitude = nil, nil

	if s.geocoder == nil || strings.TrimSpace(event.Venue+event.City) == "" {
		return
	}

	lat, lng, err := s.geocoder.Geocode(ctx, event.Venue+", "+event.City)
	if err != nil {
		logging.FromContext(ctx).Warn("Geocoding failed, saving event without coordinates",
			slog.String("venue", event.Venue),
			slog.String("city", event.City),
			slog.String("error", err.Error()),
		)
		return
	}

	event.Latitude, event.Longitude = &lat, &lng
}

func (s *eventService) CreateEvent(ctx context.Context, req *models.CreateEventRequest) (*models.Event, error) {
	event := &models.Event{
		Name:        strings.TrimSpace(req.Name),
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Venue:       strings.TrimSpace(req.Venue),
		City:        strings.TrimSpace(req.City),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Lineup:      req.Lineup,
		Status:      req.Status,
		Description: s.policy.Sanitize(req.Description),
		FlyerURL:    req.FlyerURL,
		TicketLink:  req.TicketLink,
	}

	s.locate(ctx, event)

	if err := s.events.CreateEvent(ctx, event); err != nil {
		return nil, errors.DatabaseError("Failed to create event").WithError(err)
	}

	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id uuid.UUID, req *models.UpdateEventRequest) (*models.Event, error) {
	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	moved := false

	if req.Name != nil {
		event.Name = strings.TrimSpace(*req.Name)
	}
	if req.Date != nil {
		event.Date = *req.Date
	}
	if req.StartTime != nil {
		event.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = *req.EndTime
	}
	if req.Venue != nil && *req.Venue != event.Venue {
		event.Venue = strings.TrimSpace(*req.Venue)
		moved = true
	}
	if req.City != nil && *req.City != event.City {
		event.City = strings.TrimSpace(*req.City)
		moved = true
	}
	if req.Latitude != nil && req.Longitude != nil {
		event.Latitude, event.Longitude = req.Latitude, req.Longitude
	} else if moved {
		event.Latitude, event.Longitude = nil, nil
	}
	if req.Lineup != nil {
		event.Lineup = req.Lineup
	}
	if req.Status != nil {
		event.Status = *req.Status
	}
	if req.Description != nil {
		event.Description = s.policy.Sanitize(*req.Description)
	}
	if req.FlyerURL != nil {
		event.FlyerURL = *req.FlyerURL
	}
	if req.TicketLink != nil {
		event.TicketLink = *req.TicketLink
	}

	s.locate(ctx, event)

	if err := s.events.UpdateEvent(ctx, event); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Event not found").WithError(err)
		}

		return nil, errors.DatabaseError("Failed to update event").WithError(err)
	}

	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	if err := s.events.DeleteEvent(ctx, id); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Event not found").WithError(err)
		}

		return errors.DatabaseError("Failed to delete event").WithError(err)
	}

	return nil
}

// UploadFlyer stores the flyer image in the flyers bucket and points the event at it.
func (s *eventService) UploadFlyer(ctx context.Context, id uuid.UUID, upload *Upload) (*models.Event, error) {
	if err := requireImage(upload); err != nil {
		return nil, err
	}

	event, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.Upload(ctx, storage.Flyers, upload.objectName("events/"+id.String()), upload.Body, upload.Size, upload.ContentType)
	if err != nil {
		return nil, errors.ThirdPartyError("Failed to upload flyer").WithError(err)
	}

	event.FlyerURL = url

	if err := s.events.UpdateEvent(ctx, event); err != nil {
		return nil, errors.DatabaseError("Failed to update event").WithError(err)
	}

	return event, nil
}
