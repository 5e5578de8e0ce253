package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/munera-collective/munera-platform/internal/api/middleware"
	"github.com/munera-collective/munera-platform/internal/models"
	service "github.com/munera-collective/munera-platform/internal/services"
	"github.com/munera-collective/munera-platform/internal/utils"
	"github.com/munera-collective/munera-platform/internal/utils/response"
)

type EventHandler struct {
	eventService service.EventService
	mediaService service.MediaService
	validator    *validator.Validate
}

func NewEventHandler(eventService service.EventService, mediaService service.MediaService) *EventHandler {
	return &EventHandler{eventService: eventService, mediaService: mediaService, validator: validator.New()}
}

// ListEvents godoc
//	@Summary		List events
//	@Description	Upcoming events are sorted by date ascending, past events descending.
//	@Tags			Events
//	@Produce		json
//	@Param			status	query		string					false	"upcoming or past"	Enums(upcoming, past)
//	@Success		200		{object}	[]models.Event			"Events"
//	@Failure		400		{object}	response.ErrorResponse	"Unknown status"
//	@Router			/events [get]
func (h *EventHandler) ListEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		status := models.EventStatus(r.URL.Query().Get("status"))

		events, err := h.eventService.ListEvents(r.Context(), status)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, events)
	}
}

// GetEvent godoc
//	@Summary		Get an event
//	@Tags			Events
//	@Produce		json
//	@Param			id	path		string					true	"Event ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Event			"Event with media"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid event ID"
//	@Failure		404	{object}	response.ErrorResponse	"Event not found"
//	@Router			/events/{id} [get]
func (h *EventHandler) GetEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		event, err := h.eventService.GetEvent(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, event)
	}
}

// CreateEvent godoc
//	@Summary		Create an event
//	@Description	Coordinates are geocoded from venue and city when omitted.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			event	body		models.CreateEventRequest	true	"Event"
//	@Success		201		{object}	models.Event				"Created"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		403		{object}	response.ErrorResponse		"Admin access required"
//	@Security		BearerAuth
//	@Router			/admin/events [post]
func (h *EventHandler) CreateEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateEventRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create event input")
			return
		}

		event, err := h.eventService.CreateEvent(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create event", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Event created", slog.String("eventId", event.ID.String()))
		response.Success(w, http.StatusCreated, event)
	}
}

// UpdateEvent godoc
//	@Summary		Update an event
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Event ID (UUID)"	Format(uuid)
//	@Param			event	body		models.UpdateEventRequest	true	"Changed fields"
//	@Success		200		{object}	models.Event				"Updated"
//	@Failure		404		{object}	response.ErrorResponse		"Event not found"
//	@Security		BearerAuth
//	@Router			/admin/events/{id} [put]
func (h *EventHandler) UpdateEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateEventRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		event, err := h.eventService.UpdateEvent(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update event", slog.String("eventId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, event)
	}
}

// DeleteEvent godoc
//	@Summary		Delete an event
//	@Tags			Admin
//	@Param			id	path	string	true	"Event ID (UUID)"	Format(uuid)
//	@Success		204
//	@Failure		404	{object}	response.ErrorResponse	"Event not found"
//	@Security		BearerAuth
//	@Router			/admin/events/{id} [delete]
func (h *EventHandler) DeleteEvent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.eventService.DeleteEvent(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Event deleted", slog.String("eventId", id.String()))
		w.WriteHeader(http.StatusNoContent)
	}
}

// UploadFlyer godoc
//	@Summary		Upload an event flyer
//	@Tags			Admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string					true	"Event ID (UUID)"	Format(uuid)
//	@Param			file	formData	file					true	"Flyer image"
//	@Success		200		{object}	models.Event			"Updated event"
//	@Failure		415		{object}	response.ErrorResponse	"Not an image"
//	@Security		BearerAuth
//	@Router			/admin/events/{id}/flyer [post]
func (h *EventHandler) UploadFlyer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		upload, done, err := readUpload(w, r, "file")
		if err != nil {
			response.Error(w, err)
			return
		}
		defer done()

		event, err := h.eventService.UploadFlyer(r.Context(), id, upload)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, event)
	}
}

// ListMedia godoc
//	@Summary		List event media
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string			true	"Event ID (UUID)"	Format(uuid)
//	@Success		200	{object}	[]models.Media	"Media"
//	@Security		BearerAuth
//	@Router			/admin/events/{id}/media [get]
func (h *EventHandler) ListMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		media, err := h.mediaService.ListMedia(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, media)
	}
}

// UploadPhoto godoc
//	@Summary		Add a gallery photo
//	@Tags			Admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string					true	"Event ID (UUID)"	Format(uuid)
//	@Param			file	formData	file					true	"Photo"
//	@Success		201		{object}	models.Media			"Created"
//	@Failure		404		{object}	response.ErrorResponse	"Event not found"
//	@Security		BearerAuth
//	@Router			/admin/events/{id}/media/photos [post]
func (h *EventHandler) UploadPhoto() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		upload, done, err := readUpload(w, r, "file")
		if err != nil {
			response.Error(w, err)
			return
		}
		defer done()

		media, err := h.mediaService.UploadPhoto(r.Context(), id, upload)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, media)
	}
}

// AddVideo godoc
//	@Summary		Add a gallery video link
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Event ID (UUID)"	Format(uuid)
//	@Param			video	body		models.AddVideoRequest	true	"Video URL"
//	@Success		201		{object}	models.Media			"Created"
//	@Security		BearerAuth
//	@Router			/admin/events/{id}/media/videos [post]
func (h *EventHandler) AddVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.AddVideoRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		media, err := h.mediaService.AddVideo(r.Context(), id, req.URL)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, media)
	}
}

// DeleteMedia godoc
//	@Summary		Delete a gallery item
//	@Tags			Admin
//	@Param			id	path	string	true	"Media ID (UUID)"	Format(uuid)
//	@Success		204
//	@Failure		404	{object}	response.ErrorResponse	"Media not found"
//	@Security		BearerAuth
//	@Router			/admin/media/{id} [delete]
func (h *EventHandler) DeleteMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.mediaService.DeleteMedia(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
