package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/munera-collective/munera-platform/internal/api/middleware"
	"github.com/munera-collective/munera-platform/internal/errors"
	"github.com/munera-collective/munera-platform/internal/models"
	service "github.com/munera-collective/munera-platform/internal/services"
	"github.com/munera-collective/munera-platform/internal/utils"
	"github.com/munera-collective/munera-platform/internal/utils/response"
)

// Stripe caps webhook payloads well below this.
const maxWebhookBodySize = 64 << 10

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, validator: validator.New()}
}

// Checkout godoc
//	@Summary		Start payment for the cart
//	@Description	Validates the delivery details and creates a Stripe PaymentIntent for the cart total.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			X-Cart-Session	header		string					true	"Cart session id"
//	@Param			checkout		body		models.CheckoutRequest	true	"Delivery details"
//	@Success		201				{object}	models.CheckoutResponse	"Payment created"
//	@Failure		400				{object}	response.ErrorResponse	"Validation error or empty cart"
//	@Failure		500				{object}	response.ErrorResponse	"Payment provider error"
//	@Router			/checkout [post]
func (h *CheckoutHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		session := readCartSession(r)
		if session == "" {
			response.Error(w, errors.BadRequestError("Cart is empty"))
			return
		}

		var req models.CheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid checkout input")
			return
		}

		result, err := h.checkoutService.Checkout(r.Context(), session, &req)
		if err != nil {
			logger.Error("Checkout failed", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, result)
	}
}

// Webhook godoc
//	@Summary		Stripe webhook
//	@Description	Receives signed Stripe events. A succeeded payment clears the cart and emails a confirmation.
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			Stripe-Signature	header		string					true	"Stripe signature"
//	@Success		200					{object}	response.APIResponse	"Event processed"
//	@Failure		400					{object}	response.ErrorResponse	"Invalid signature or payload"
//	@Router			/payments/webhook [post]
func (h *CheckoutHandler) Webhook() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodySize))
		if err != nil {
			response.Error(w, errors.BadRequestError("Failed to read webhook body").WithError(err))
			return
		}

		event, err := h.checkoutService.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
		if err != nil {
			logger.Warn("Webhook rejected", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Webhook processed", slog.String("eventId", event.ID), slog.String("type", string(event.Type)))
		response.Success(w, http.StatusOK, map[string]string{"received": event.ID})
	}
}
