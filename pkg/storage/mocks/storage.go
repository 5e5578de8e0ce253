package mocks

import (
	"context"
	"io"

	"github.com/munera-collective/munera-platform/internal/models"
	"github.com/munera-collective/munera-platform/pkg/storage"
	"github.com/stretchr/testify/mock"
)

type Storage struct{ mock.Mock }

func NewStorage(t interface {
	mock.TestingT
	Cleanup(func())
}) *Storage {
	m := &Storage{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *Storage) Upload(ctx context.Context, bucket storage.Bucket, name string, body io.Reader, size int64, contentType string) (string, error) {
	args := m.Called(ctx, bucket, name, body, size, contentType)
	return args.String(0), args.Error(1)
}

func (m *Storage) PublicURL(bucket storage.Bucket, name string) string {
	return m.Called(bucket, name).String(0)
}

func (m *Storage) List(ctx context.Context, bucket storage.Bucket, prefix string) ([]models.StoredFile, error) {
	args := m.Called(ctx, bucket, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StoredFile), args.Error(1)
}

func (m *Storage) Delete(ctx context.Context, bucket storage.Bucket, names ...string) error {
	args := []any{ctx, bucket}
	for _, name := range names {
		args = append(args, name)
	}

	return m.Called(args...).Error(0)
}
