package service_test

import (
	"context"
	stdErrors "errors"
	"strings"
	"testing"

	"github.com/munera-collective/munera-platform/internal/cart"
	appErrors "github.com/munera-collective/munera-platform/internal/errors"
	"github.com/munera-collective/munera-platform/internal/models"
	service "github.com/munera-collective/munera-platform/internal/services"
	emailMocks "github.com/munera-collective/munera-platform/pkg/sendgrid/mocks"
	"github.com/munera-collective/munera-platform/pkg/stripe"
	stripeMocks "github.com/munera-collective/munera-platform/pkg/stripe/mocks"
	"github.com/shopspring/decimal"
	stripeSDK "github.com/stripe/stripe-go/v81"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCheckoutServiceTest(t *testing.T) (service.CheckoutService, *memoryCart, *stripeMocks.Client, *emailMocks.EmailService) {
	storage := newMemoryCart()
	client := stripeMocks.NewClient(t)
	email := emailMocks.NewEmailService(t)

	return service.NewCheckoutService(storage, client, email, cartConfig, "EUR"), storage, client, email
}

func checkoutRequest() *models.CheckoutRequest {
	return &models.CheckoutRequest{
		FirstName:  "Lea",
		LastName:   "Martin",
		Email:      "lea@example.com",
		Address:    "12 rue de la Paix",
		City:       "Paris",
		PostalCode: "75002",
	}
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - charges the cart total in cents", func(t *testing.T) {
		// Arrange
		svc, storage, client, _ := setupCheckoutServiceTest(t)
		store := cart.Load(ctx, storage, cart.Key(cartConfig.Namespace, "session-1"), cartConfig.TTL)
		product := shirt()
		require.NoError(t, store.Add(ctx, cart.Product{ID: product.ID, Name: product.Name, Price: decimal.RequireFromString("19.99")}, "S"))
		require.NoError(t, store.Add(ctx, cart.Product{ID: product.ID, Name: product.Name, Price: decimal.RequireFromString("19.99")}, "S"))

		client.On("CreatePaymentIntent", int64(3998), "eur", "Munera Collective order", "lea@example.com", mock.MatchedBy(func(md map[string]string) bool {
			return md["cart_session"] == "session-1" && md["customer_name"] == "Lea Martin" &&
				md["shipping_address"] == "12 rue de la Paix, 75002 Paris" && md["items"] == "2"
		})).Return(&stripeSDK.PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret"}, nil).Once()

		// Act
		resp, err := svc.Checkout(ctx, "session-1", checkoutRequest())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "pi_123_secret", resp.ClientSecret)
		assert.Equal(t, "eur", resp.Currency)
		assert.True(t, resp.Amount.Equal(decimal.RequireFromString("39.98")))
		assert.Equal(t, models.PaymentStatusPending, resp.Status)
	})

	t.Run("Failure - empty cart", func(t *testing.T) {
		// Arrange
		svc, _, _, _ := setupCheckoutServiceTest(t)

		// Act
		_, err := svc.Checkout(ctx, "session-1", checkoutRequest())

		// Assert
		assertAppError(t, err, appErrors.ErrCodeBadRequest)
	})

	t.Run("Failure - stripe error", func(t *testing.T) {
		// Arrange
		svc, storage, client, _ := setupCheckoutServiceTest(t)
		store := cart.Load(ctx, storage, cart.Key(cartConfig.Namespace, "session-1"), cartConfig.TTL)
		require.NoError(t, store.Add(ctx, cart.Product{ID: shirt().ID, Price: decimal.NewFromInt(10)}, ""))

		client.On("CreatePaymentIntent", int64(1000), "eur", mock.Anything, mock.Anything, mock.Anything).Return(nil, stdErrors.New("card declined")).Once()

		// Act
		_, err := svc.Checkout(ctx, "session-1", checkoutRequest())

		// Assert
		assertAppError(t, err, appErrors.ErrCodeThirdPartyError)
	})
}

func TestHandleWebhook(t *testing.T) {
	ctx := context.Background()
	payload := []byte(`{"id":"evt_1"}`)

	t.Run("Success - paid cart is cleared and confirmed", func(t *testing.T) {
		// Arrange
		svc, storage, client, email := setupCheckoutServiceTest(t)
		key := cart.Key(cartConfig.Namespace, "session-1")
		require.NoError(t, storage.Set(ctx, key, []cart.Item{}, 0))

		event := stripe.Event{
			Type: stripe.EventPaymentIntentSucceeded,
			Data: &stripeSDK.EventData{Raw: []byte(`{"id":"pi_123","amount":3998,"currency":"eur","receipt_email":"lea@example.com","metadata":{"cart_session":"session-1"}}`)},
		}

		client.On("VerifyWebhookSignature", payload, "sig").Return(event, nil).Once()
		email.On("Send", ctx, mock.MatchedBy(func(req *models.EmailNotificationRequest) bool {
			return req.To == "lea@example.com" && strings.Contains(req.Content, "39.98 EUR")
		})).Return(nil).Once()

		// Act
		result, err := svc.HandleWebhook(ctx, payload, "sig")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, stripe.EventPaymentIntentSucceeded, result.Type)
		assert.False(t, storage.has(key))
	})

	t.Run("Success - other events are acknowledged untouched", func(t *testing.T) {
		// Arrange
		svc, _, client, _ := setupCheckoutServiceTest(t)

		client.On("VerifyWebhookSignature", payload, "sig").Return(stripe.Event{Type: "charge.refunded"}, nil).Once()

		// Act
		result, err := svc.HandleWebhook(ctx, payload, "sig")

		// Assert
		require.NoError(t, err)
		assert.EqualValues(t, "charge.refunded", result.Type)
	})

	t.Run("Failure - bad signature", func(t *testing.T) {
		// Arrange
		svc, _, client, _ := setupCheckoutServiceTest(t)

		client.On("VerifyWebhookSignature", payload, "forged").Return(stripe.Event{}, stdErrors.New("signature mismatch")).Once()

		// Act
		_, err := svc.HandleWebhook(ctx, payload, "forged")

		// Assert
		assertAppError(t, err, appErrors.ErrCodeBadRequest)
	})
}
