package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/munera-collective/munera-platform/internal/api/middleware"
	"github.com/munera-collective/munera-platform/internal/models"
	service "github.com/munera-collective/munera-platform/internal/services"
	"github.com/munera-collective/munera-platform/internal/utils"
	"github.com/munera-collective/munera-platform/internal/utils/response"
)

type FlyerHandler struct {
	flyerService service.FlyerService
	validator    *validator.Validate
}

func NewFlyerHandler(flyerService service.FlyerService) *FlyerHandler {
	return &FlyerHandler{flyerService: flyerService, validator: validator.New()}
}

// Render godoc
//	@Summary		Render a flyer
//	@Description	Returns a 1080x1350 PNG. An unreachable background image is skipped.
//	@Tags			Flyers
//	@Accept			json
//	@Produce		png
//	@Param			flyer	body		models.FlyerRequest		true	"Flyer text"
//	@Success		200		{file}		binary					"PNG flyer"
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Router			/flyers [post]
func (h *FlyerHandler) Render() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.FlyerRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		data, name, err := h.flyerService.Render(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to render flyer", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

// SaveFlyer godoc
//	@Summary		Render and store a flyer
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			flyer	body		models.FlyerRequest	true	"Flyer text"
//	@Success		201		{object}	models.StoredFile	"Stored flyer"
//	@Security		BearerAuth
//	@Router			/admin/flyers/render [post]
func (h *FlyerHandler) SaveFlyer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.FlyerRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		file, err := h.flyerService.Save(r.Context(), &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, file)
	}
}

// ListFlyers godoc
//	@Summary		List stored flyers
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	[]models.StoredFile	"Flyers"
//	@Security		BearerAuth
//	@Router			/admin/flyers [get]
func (h *FlyerHandler) ListFlyers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		files, err := h.flyerService.ListFlyers(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, files)
	}
}

// UploadFlyer godoc
//	@Summary		Upload a finished flyer
//	@Tags			Admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file					true	"Flyer image"
//	@Success		201		{object}	models.StoredFile		"Stored flyer"
//	@Failure		415		{object}	response.ErrorResponse	"Not an image"
//	@Security		BearerAuth
//	@Router			/admin/flyers [post]
func (h *FlyerHandler) UploadFlyer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		upload, done, err := readUpload(w, r, "file")
		if err != nil {
			response.Error(w, err)
			return
		}
		defer done()

		file, err := h.flyerService.UploadFlyer(r.Context(), upload)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, file)
	}
}

// DeleteFlyer godoc
//	@Summary		Delete a stored flyer
//	@Tags			Admin
//	@Param			name	path	string	true	"Object name"
//	@Success		204
//	@Failure		400	{object}	response.ErrorResponse	"Invalid name"
//	@Security		BearerAuth
//	@Router			/admin/flyers/{name} [delete]
func (h *FlyerHandler) DeleteFlyer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		name := r.PathValue("name")

		if err := h.flyerService.DeleteFlyer(r.Context(), name); err != nil {
			response.Error(w, err)
			return
		}

		middleware.LoggerFromContext(r.Context()).Info("Flyer deleted", slog.String("name", name))
		w.WriteHeader(http.StatusNoContent)
	}
}
