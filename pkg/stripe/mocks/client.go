package mocks

import (
	"github.com/munera-collective/munera-platform/pkg/stripe"
	stripeSDK "github.com/stripe/stripe-go/v81"
	"github.com/stretchr/testify/mock"
)

type Client struct{ mock.Mock }

func NewClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *Client {
	m := &Client{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *Client) CreatePaymentIntent(amount int64, currency string, description string, receiptEmail string, metadata map[string]string) (*stripeSDK.PaymentIntent, error) {
	args := m.Called(amount, currency, description, receiptEmail, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripeSDK.PaymentIntent), args.Error(1)
}

func (m *Client) VerifyWebhookSignature(payload []byte, signature string) (stripe.Event, error) {
	args := m.Called(payload, signature)
	return args.Get(0).(stripe.Event), args.Error(1)
}
