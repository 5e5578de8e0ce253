package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/munera-collective/munera-platform/internal/cart"
	"github.com/munera-collective/munera-platform/internal/config"
	"github.com/munera-collective/munera-platform/internal/errors"
	"github.com/munera-collective/munera-platform/internal/logging"
	"github.com/munera-collective/munera-platform/internal/models"
	"github.com/munera-collective/munera-platform/pkg/sendgrid"
	"github.com/munera-collective/munera-platform/pkg/stripe"
	"github.com/shopspring/decimal"
)

const cartSessionMetadataKey = "cart_session"

type CheckoutService interface {
	// Checkout opens a payment for the current cart total.
	Checkout(ctx context.Context, session string, req *models.CheckoutRequest) (*models.CheckoutResponse, error)
	// HandleWebhook verifies and applies a Stripe event.
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*stripe.Event, error)
}

type checkoutService struct {
	storage  cart.Storage
	stripe   stripe.Client
	email    sendgrid.EmailService
	cart     config.Cart
	currency string
}

func NewCheckoutService(storage cart.Storage, stripeClient stripe.Client, email sendgrid.EmailService, cartCfg config.Cart, currency string) CheckoutService {
	if currency == "" {
		currency = "eur"
	}

	return &checkoutService{storage: storage, stripe: stripeClient, email: email, cart: cartCfg, currency: strings.ToLower(currency)}
}

// toMinorUnits converts a decimal amount into cents.
func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func (s *checkoutService) Checkout(ctx context.Context, session string, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {
	logger := logging.FromContext(ctx)

	store := cart.Load(ctx, s.storage, cart.Key(s.cart.Namespace, session), s.cart.TTL)

	total := store.Total()
	if store.Count() == 0 || !total.IsPositive() {
		return nil, errors.BadRequestError("Cart is empty")
	}

	metadata := map[string]string{
		cartSessionMetadataKey: session,
		"customer_name":        strings.TrimSpace(req.FirstName + " " + req.LastName),
		"shipping_address":     fmt.Sprintf("%s, %s %s", req.Address, req.PostalCode, req.City),
		"items":                fmt.Sprintf("%d", store.Count()),
	}

	if req.Phone != "" {
		metadata["phone"] = req.Phone
	}

	intent, err := s.stripe.CreatePaymentIntent(toMinorUnits(total), s.currency, "Munera Collective order", req.Email, metadata)
	if err != nil {
		return nil, errors.ThirdPartyError("Failed to create payment").WithError(err)
	}

	logger.Info("Payment intent created", slog.String("paymentIntentId", intent.ID), slog.String("amount", total.StringFixed(2)))

	return &models.CheckoutResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          total,
		Currency:        s.currency,
		Status:          models.PaymentStatusPending,
	}, nil
}

func (s *checkoutService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*stripe.Event, error) {
	logger := logging.FromContext(ctx)

	event, err := s.stripe.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return nil, errors.BadRequestError("Invalid webhook signature").WithError(err)
	}

	if event.Type != stripe.EventPaymentIntentSucceeded {
		logger.Debug("Ignoring webhook event", slog.String("type", string(event.Type)))
		return &event, nil
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, errors.BadRequestError("Malformed payment intent").WithError(err)
	}

	if session := intent.Metadata[cartSessionMetadataKey]; session != "" {
		if err := s.storage.Delete(ctx, cart.Key(s.cart.Namespace, session)); err != nil {
			logger.Error("Failed to clear paid cart", slog.String("paymentIntentId", intent.ID), slog.String("error", err.Error()))
		}
	}

	if intent.ReceiptEmail != "" {
		amount := decimal.New(intent.Amount, -2)

		err := s.email.Send(ctx, &models.EmailNotificationRequest{
			To:      intent.ReceiptEmail,
			Subject: "Your Munera Collective order",
			Content: fmt.Sprintf("Thank you for your order! We received your payment of %s %s and will ship it soon.", amount.StringFixed(2), strings.ToUpper(string(intent.Currency))),
		})
		if err != nil {
			logger.Error("Failed to send order confirmation", slog.String("paymentIntentId", intent.ID), slog.String("error", err.Error()))
		}
	}

	logger.Info("Payment succeeded", slog.String("paymentIntentId", intent.ID))

	return &event, nil
}
