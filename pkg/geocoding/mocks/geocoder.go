package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Geocoder struct{ mock.Mock }

func NewGeocoder(t interface {
	mock.TestingT
	Cleanup(func())
}) *Geocoder {
	m := &Geocoder{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *Geocoder) Geocode(ctx context.Context, query string) (float64, float64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(float64), args.Get(1).(float64), args.Error(2)
}
