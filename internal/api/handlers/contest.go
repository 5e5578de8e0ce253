package handlers

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/munera-collective/munera-platform/internal/api/middleware"
	"github.com/munera-collective/munera-platform/internal/errors"
	"github.com/munera-collective/munera-platform/internal/models"
	service "github.com/munera-collective/munera-platform/internal/services"
	"github.com/munera-collective/munera-platform/internal/utils"
	"github.com/munera-collective/munera-platform/internal/utils/response"
	"github.com/munera-collective/munera-platform/internal/voting"
)

const (
	defaultAwaitTimeout = 25 * time.Second
	maxAwaitTimeout     = 60 * time.Second
)

type ContestHandler struct {
	contestService service.ContestService
	validator      *validator.Validate
}

func NewContestHandler(contestService service.ContestService) *ContestHandler {
	return &ContestHandler{contestService: contestService, validator: validator.New()}
}

func sessionFromClaims(claims *models.Claims) voting.Session {
	return voting.Session{UserID: claims.UserID, Email: claims.Email}
}

// clientIP prefers the first X-Forwarded-For hop set by the proxy.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

func awaitTimeout(r *http.Request) time.Duration {
	seconds, err := strconv.Atoi(r.URL.Query().Get("timeout"))
	if err != nil || seconds <= 0 {
		return defaultAwaitTimeout
	}

	timeout := time.Duration(seconds) * time.Second
	if timeout > maxAwaitTimeout {
		return maxAwaitTimeout
	}

	return timeout
}

// ListContestants godoc
//	@Summary		List contestants
//	@Tags			Contest
//	@Produce		json
//	@Success		200	{object}	[]models.Contestant	"Contestants"
//	@Router			/contestants [get]
func (h *ContestHandler) ListContestants() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		contestants, err := h.contestService.ListContestants(r.Context())
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, contestants)
	}
}

// GetContestant godoc
//	@Summary		Get a contestant
//	@Tags			Contest
//	@Produce		json
//	@Param			id	path		string					true	"Contestant ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Contestant		"Contestant"
//	@Failure		404	{object}	response.ErrorResponse	"Contestant not found"
//	@Router			/contestants/{id} [get]
func (h *ContestHandler) GetContestant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		contestant, err := h.contestService.GetContestant(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, contestant)
	}
}

// VoteStatus godoc
//	@Summary		Where the caller stands for a contestant
//	@Description	Anonymous callers get "unauthenticated". Signed-in callers get "already_voted" or "can_vote".
//	@Tags			Contest
//	@Produce		json
//	@Param			id	path		string					true	"Contestant ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.VoteStatus		"Vote status"
//	@Failure		404	{object}	response.ErrorResponse	"Contestant not found"
//	@Router			/contestants/{id}/vote [get]
func (h *ContestHandler) VoteStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var session *voting.Session
		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			s := sessionFromClaims(claims)
			session = &s
		}

		status, err := h.contestService.VoteStatus(r.Context(), id, session)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, status)
	}
}

// RequestVoteLogin godoc
//	@Summary		Email a sign-in link to vote
//	@Tags			Contest
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Contestant ID (UUID)"	Format(uuid)
//	@Param			request	body		models.VoteLoginRequest	true	"Email"
//	@Success		202		{object}	models.VoteStatus		"awaiting_email_link"
//	@Failure		429		{object}	response.ErrorResponse	"Too many requests"
//	@Router			/contestants/{id}/vote/login [post]
func (h *ContestHandler) RequestVoteLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.VoteLoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		status, err := h.contestService.RequestVoteLogin(r.Context(), id, &req)
		if err != nil {
			logger.Warn("Vote sign-in request failed", slog.String("contestantId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusAccepted, status)
	}
}

// AwaitVote godoc
//	@Summary		Wait for the emailed sign-in
//	@Description	Long-polls until the address signs in or the timeout passes. A timeout reports "awaiting_email_link".
//	@Tags			Contest
//	@Produce		json
//	@Param			id		path		string					true	"Contestant ID (UUID)"	Format(uuid)
//	@Param			email	query		string					true	"Email the link was sent to"
//	@Param			timeout	query		int						false	"Seconds to wait (default: 25, max: 60)"
//	@Success		200		{object}	models.VoteStatus		"Vote status"
//	@Failure		400		{object}	response.ErrorResponse	"Missing email"
//	@Router			/contestants/{id}/vote/await [get]
func (h *ContestHandler) AwaitVote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		email := strings.TrimSpace(r.URL.Query().Get("email"))
		if err := h.validator.Var(email, "required,email"); err != nil {
			response.Error(w, errors.AddValidationError("email", "must be a valid email address"))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), awaitTimeout(r))
		defer cancel()

		status, err := h.contestService.AwaitVoteSession(ctx, id, email)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, status)
	}
}

// SubmitVote godoc
//	@Summary		Vote for a contestant
//	@Description	One vote per user per contest.
//	@Tags			Contest
//	@Produce		json
//	@Param			id	path		string					true	"Contestant ID (UUID)"	Format(uuid)
//	@Success		201	{object}	models.VoteStatus		"vote_submitted"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		409	{object}	response.ErrorResponse	"Already voted"
//	@Security		BearerAuth
//	@Router			/contestants/{id}/vote [post]
func (h *ContestHandler) SubmitVote() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		status, err := h.contestService.SubmitVote(r.Context(), id, sessionFromClaims(claims), clientIP(r))
		if err != nil {
			logger.Warn("Vote rejected", slog.String("contestantId", id.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Vote recorded", slog.String("contestantId", id.String()), slog.String("userId", claims.UserID.String()))
		response.Success(w, http.StatusCreated, status)
	}
}

// CreateContestant godoc
//	@Summary		Create a contestant
//	@Description	Without contest_id the contestant joins the current edition, which is opened on demand.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			contestant	body		models.CreateContestantRequest	true	"Contestant"
//	@Success		201			{object}	models.Contestant				"Created"
//	@Security		BearerAuth
//	@Router			/admin/contestants [post]
func (h *ContestHandler) CreateContestant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateContestantRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create contestant input")
			return
		}

		contestant, err := h.contestService.CreateContestant(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create contestant", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, contestant)
	}
}

// UpdateContestant godoc
//	@Summary		Update a contestant
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id			path		string							true	"Contestant ID (UUID)"	Format(uuid)
//	@Param			contestant	body		models.UpdateContestantRequest	true	"Changed fields"
//	@Success		200			{object}	models.Contestant				"Updated"
//	@Security		BearerAuth
//	@Router			/admin/contestants/{id} [put]
func (h *ContestHandler) UpdateContestant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateContestantRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		contestant, err := h.contestService.UpdateContestant(r.Context(), id, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, contestant)
	}
}

// DeleteContestant godoc
//	@Summary		Delete a contestant
//	@Tags			Admin
//	@Param			id	path	string	true	"Contestant ID (UUID)"	Format(uuid)
//	@Success		204
//	@Security		BearerAuth
//	@Router			/admin/contestants/{id} [delete]
func (h *ContestHandler) DeleteContestant() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.contestService.DeleteContestant(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// UploadContestantPhoto godoc
//	@Summary		Upload a contestant photo
//	@Tags			Admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string					true	"Contestant ID (UUID)"	Format(uuid)
//	@Param			file	formData	file					true	"Photo"
//	@Success		200		{object}	models.Contestant		"Updated"
//	@Failure		415		{object}	response.ErrorResponse	"Not an image"
//	@Security		BearerAuth
//	@Router			/admin/contestants/{id}/photo [post]
func (h *ContestHandler) UploadContestantPhoto() http.HandlerFunc {
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

		contestant, err := h.contestService.UploadPhoto(r.Context(), id, upload)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, contestant)
	}
}
