package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/api/middleware"
	"github.com/munera-collective/munera-platform/internal/models"
	service "github.com/munera-collective/munera-platform/internal/services"
	"github.com/munera-collective/munera-platform/internal/utils"
	"github.com/munera-collective/munera-platform/internal/utils/response"
)

const (
	CartSessionHeader = "X-Cart-Session"
	CartSessionCookie = "munera_cart_session"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
	cookieTTL   time.Duration
	secure      bool
}

func NewCartHandler(cartService service.CartService, cookieTTL time.Duration, secure bool) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New(), cookieTTL: cookieTTL, secure: secure}
}

// readCartSession returns the cart id sent by the client, or "" when it is
// missing or malformed.
func readCartSession(r *http.Request) string {
	session := strings.TrimSpace(r.Header.Get(CartSessionHeader))

	if session == "" {
		if cookie, err := r.Cookie(CartSessionCookie); err == nil {
			session = cookie.Value
		}
	}

	if _, err := uuid.Parse(session); err != nil {
		return ""
	}

	return session
}

// cartSession returns the caller's cart id from the header or cookie, issuing
// a new one when neither is present or usable.
func (h *CartHandler) cartSession(w http.ResponseWriter, r *http.Request) string {
	if session := readCartSession(r); session != "" {
		return session
	}

	session := uuid.NewString()

	http.SetCookie(w, &http.Cookie{
		Name:     CartSessionCookie,
		Value:    session,
		Path:     "/",
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(CartSessionHeader, session)

	return session
}

// GetCart godoc
//	@Summary		Get the cart
//	@Tags			Cart
//	@Produce		json
//	@Param			X-Cart-Session	header		string					false	"Cart session id"
//	@Success		200				{object}	cart.View				"Current cart"
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := h.cartSession(w, r)

		response.Success(w, http.StatusOK, h.cartService.GetCart(r.Context(), session))
	}
}

// AddItem godoc
//	@Summary		Add a product to the cart
//	@Description	Adds one unit of the product in the selected size. Repeating the call increments the line.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Cart-Session	header		string					false	"Cart session id"
//	@Param			item			body		models.AddItemRequest	true	"Product and size"
//	@Success		200				{object}	cart.View				"Updated cart"
//	@Failure		400				{object}	response.ErrorResponse	"Validation error or unavailable product"
//	@Failure		404				{object}	response.ErrorResponse	"Product not found"
//	@Router			/cart/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		session := h.cartSession(w, r)

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add to cart input")
			return
		}

		view, err := h.cartService.AddItem(r.Context(), session, &req)
		if err != nil {
			logger.Warn("Failed to add item", slog.String("productId", req.ProductID.String()), slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

// UpdateQuantity godoc
//	@Summary		Change a line quantity
//	@Description	Adjusts the quantity by delta. Quantities never drop below 1.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Cart-Session	header		string							false	"Cart session id"
//	@Param			item			body		models.UpdateQuantityRequest	true	"Line and delta"
//	@Success		200				{object}	cart.View						"Updated cart"
//	@Failure		400				{object}	response.ErrorResponse			"Validation error"
//	@Router			/cart/items [patch]
func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		session := h.cartSession(w, r)

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid quantity update input")
			return
		}

		view, err := h.cartService.UpdateQuantity(r.Context(), session, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

// RemoveItem godoc
//	@Summary		Remove a cart line
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			X-Cart-Session	header		string						false	"Cart session id"
//	@Param			item			body		models.RemoveItemRequest	true	"Line to remove"
//	@Success		200				{object}	cart.View					"Updated cart"
//	@Router			/cart/items [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session := h.cartSession(w, r)

		var req models.RemoveItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		view, err := h.cartService.RemoveItem(r.Context(), session, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

// ClearCart godoc
//	@Summary		Empty the cart
//	@Tags			Cart
//	@Produce		json
//	@Param			X-Cart-Session	header		string		false	"Cart session id"
//	@Success		200				{object}	cart.View	"Empty cart"
//	@Router			/cart [delete]
func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		session := h.cartSession(w, r)

		view, err := h.cartService.ClearCart(r.Context(), session)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}
