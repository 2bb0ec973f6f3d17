package service

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/tegami/tegami-backend/internal/domain"
	"github.com/tegami/tegami-backend/pkg/storage"
)

// MockNotifier records notifications
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(n domain.Notification) {
	m.Called(n)
}

// MockBlobStore is a mock implementation of BlobStore
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*storage.UploadResult, error) {
	args := m.Called(ctx, key, body, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.UploadResult), args.Error(1)
}

func (m *MockBlobStore) Remove(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

// MockAudioRepository is a mock implementation of AudioRepository
type MockAudioRepository struct {
	mock.Mock
}

func (m *MockAudioRepository) FindByUserID(ctx context.Context, userID string) ([]*domain.AudioMemory, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.AudioMemory), args.Error(1)
}

func (m *MockAudioRepository) FindByID(ctx context.Context, id string) (*domain.AudioMemory, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AudioMemory), args.Error(1)
}

func (m *MockAudioRepository) Create(ctx context.Context, memory *domain.AudioMemory) error {
	args := m.Called(ctx, memory)
	return args.Error(0)
}

func (m *MockAudioRepository) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockCache is a mock implementation of cache.Service
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) error {
	return m.Called(ctx, key, dest).Error(0)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockCache) IsAvailable() bool { return true }

func (m *MockCache) Ping(ctx context.Context) error { return nil }
