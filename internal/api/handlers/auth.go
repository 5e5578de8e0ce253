package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/munera-collective/munera-platform/internal/api/middleware"
	"github.com/munera-collective/munera-platform/internal/errors"
	"github.com/munera-collective/munera-platform/internal/models"
	service "github.com/munera-collective/munera-platform/internal/services"
	"github.com/munera-collective/munera-platform/internal/utils"
	"github.com/munera-collective/munera-platform/internal/utils/response"
)

type AuthHandler struct {
	authService  service.AuthService
	validator    *validator.Validate
	magicLinkTTL int
}

func NewAuthHandler(authService service.AuthService, magicLinkTTLSeconds int) *AuthHandler {
	return &AuthHandler{authService: authService, validator: validator.New(), magicLinkTTL: magicLinkTTLSeconds}
}

// RequestMagicLink godoc
//	@Summary		Request a sign-in link
//	@Description	Emails a single-use sign-in link. Requests are rate limited per email address.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		models.MagicLinkRequest		true	"Email and optional redirect"
//	@Success		202		{object}	models.MagicLinkResponse	"Link sent"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		429		{object}	response.ErrorResponse		"Too many requests"
//	@Failure		500		{object}	response.ErrorResponse		"Email could not be sent"
//	@Router			/auth/magic-link [post]
func (h *AuthHandler) RequestMagicLink() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.MagicLinkRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid magic link request")
			return
		}

		if err := h.authService.RequestMagicLink(r.Context(), req.Email, req.RedirectTo); err != nil {
			logger.Error("Failed to send magic link", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusAccepted, models.MagicLinkResponse{
			Message:   "Check your inbox for the sign-in link.",
			ExpiresIn: h.magicLinkTTL,
		})
	}
}

// Callback godoc
//	@Summary		Complete a sign-in
//	@Description	Consumes the emailed token. When the link carried a redirect the browser is sent back
//	@Description	there with the bearer token in the URL fragment, otherwise the session is returned as JSON.
//	@Tags			Auth
//	@Produce		json
//	@Param			token	query		string					true	"Token from the sign-in email"
//	@Success		200		{object}	models.Session			"Signed in"
//	@Success		302		{string}	string					"Back to the page that asked for the link"
//	@Failure		400		{object}	response.ErrorResponse	"Missing token"
//	@Failure		401		{object}	response.ErrorResponse	"Invalid or expired link"
//	@Router			/auth/callback [get]
func (h *AuthHandler) Callback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		token := strings.TrimSpace(r.URL.Query().Get("token"))
		if token == "" {
			response.Error(w, errors.BadRequestError("Missing token"))
			return
		}

		session, err := h.authService.VerifyMagicLink(r.Context(), token)
		if err != nil {
			logger.Warn("Magic link verification failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("User signed in", slog.String("userId", session.User.ID.String()))

		if session.RedirectTo != "" {
			redirectWithToken(w, r, session)
			return
		}

		response.Success(w, http.StatusOK, session)
	}
}

// Session godoc
//	@Summary		Current session
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	models.Session			"Current user"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Security		BearerAuth
//	@Router			/auth/session [get]
func (h *AuthHandler) Session() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		session, err := h.authService.CurrentSession(r.Context(), claims)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, session)
	}
}

// SignOut godoc
//	@Summary		Sign out
//	@Description	Revokes the bearer token until it expires.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	response.APIResponse	"Signed out"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Security		BearerAuth
//	@Router			/auth/signout [post]
func (h *AuthHandler) SignOut() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		if err := h.authService.SignOut(r.Context(), claims); err != nil {
			logger.Error("Failed to sign out", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("User signed out", slog.String("userId", claims.UserID.String()))
		response.Success(w, http.StatusOK, map[string]string{"message": "Signed out"})
	}
}

// redirectWithToken hands the session to the page that requested the link. The
// fragment never reaches a server or a Referer header.
func redirectWithToken(w http.ResponseWriter, r *http.Request, session *models.Session) {
	target, err := url.Parse(session.RedirectTo)
	if err != nil {
		response.Success(w, http.StatusOK, session)
		return
	}

	target.Fragment = url.Values{
		"access_token": {session.Token},
		"expires_in":   {strconv.Itoa(session.ExpiresIn)},
		"token_type":   {"bearer"},
	}.Encode()

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Referrer-Policy", "no-referrer")
	http.Redirect(w, r, target.String(), http.StatusFound)
}
