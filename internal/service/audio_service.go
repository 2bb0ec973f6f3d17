package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tegami/tegami-backend/internal/common"
	"github.com/tegami/tegami-backend/internal/domain"
	"github.com/tegami/tegami-backend/internal/repository"
	pkglogger "github.com/tegami/tegami-backend/pkg/logger"
	"github.com/tegami/tegami-backend/pkg/storage"
)

// BlobStore is the object store behind audio memories; *storage.S3Client implements it
type BlobStore interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string, size int64) (*storage.UploadResult, error)
	Remove(ctx context.Context, keys ...string) error
}

// AudioService voice memories backed by the blob store
type AudioService interface {
	ListByUser(ctx context.Context, userID string) ([]*domain.AudioMemory, error)
	CreateFromUpload(ctx context.Context, req *domain.AudioMemoryRequest, file *domain.AudioUpload) (*domain.AudioMemory, error)
	CreateFromURL(ctx context.Context, req *domain.AudioMemoryRequest) (*domain.AudioMemory, error)
	Delete(ctx context.Context, id, callerID string) error
}

type audioService struct {
	repo      repository.AudioRepository
	blobs     BlobStore
	maxUpload int64
	now       func() time.Time
}

// NewAudioService creates a new AudioService. blobs may be nil when no
// object store is configured; uploads then fail with ErrStorageUnavailable.
func NewAudioService(repo repository.AudioRepository, blobs BlobStore, maxUpload int64) AudioService {
	return &audioService{
		repo:      repo,
		blobs:     blobs,
		maxUpload: maxUpload,
		now:       utcNow,
	}
}

func (s *audioService) ListByUser(ctx context.Context, userID string) ([]*domain.AudioMemory, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", common.ErrValidation)
	}
	memories, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if memories == nil {
		memories = []*domain.AudioMemory{}
	}
	return memories, nil
}

// CreateFromUpload stores the blob, then the row. A failed insert removes the blob again.
func (s *audioService) CreateFromUpload(ctx context.Context, req *domain.AudioMemoryRequest, file *domain.AudioUpload) (*domain.AudioMemory, error) {
	if err := validateAudioMeta(req); err != nil {
		return nil, err
	}
	if file == nil || file.Body == nil {
		return nil, fmt.Errorf("%w: audio file is required", common.ErrValidation)
	}
	if !strings.HasPrefix(file.ContentType, "audio/") {
		return nil, fmt.Errorf("%w: only audio files are allowed", common.ErrValidation)
	}
	if s.maxUpload > 0 && file.Size > s.maxUpload {
		return nil, fmt.Errorf("%w: audio file exceeds %d bytes", common.ErrValidation, s.maxUpload)
	}
	if s.blobs == nil {
		return nil, fmt.Errorf("%w: audio uploads are disabled", common.ErrStorageUnavailable)
	}

	now := s.now()
	key := storage.GenerateAudioKey(req.UserID, file.Filename, now)
	uploaded, err := s.blobs.Upload(ctx, key, file.Body, file.ContentType, file.Size)
	if err != nil {
		return nil, err
	}

	memory := newAudioMemory(req, uploaded.URL, now)
	memory.BlobKey = key
	if err := s.repo.Create(ctx, memory); err != nil {
		if rmErr := s.blobs.Remove(ctx, key); rmErr != nil {
			pkglogger.Ctx(ctx).Warn().Err(rmErr).Str("key", key).Msg("orphaned audio blob")
		}
		return nil, err
	}
	audioMemoriesTotal.WithLabelValues("upload").Inc()
	return memory, nil
}

// CreateFromURL records a memory whose blob was uploaded elsewhere
func (s *audioService) CreateFromURL(ctx context.Context, req *domain.AudioMemoryRequest) (*domain.AudioMemory, error) {
	if err := validateAudioMeta(req); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.AudioURL) == "" {
		return nil, fmt.Errorf("%w: audio_url is required", common.ErrValidation)
	}

	memory := newAudioMemory(req, req.AudioURL, s.now())
	if err := s.repo.Create(ctx, memory); err != nil {
		return nil, err
	}
	audioMemoriesTotal.WithLabelValues("url").Inc()
	return memory, nil
}

// Delete removes the row, then the blob if this service uploaded it for the
// owner. Memories created from a URL never touch the store. Blob failures are only logged.
func (s *audioService) Delete(ctx context.Context, id, callerID string) error {
	if callerID == "" {
		return fmt.Errorf("%w: user_id is required", common.ErrValidation)
	}
	memory, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if memory.UserID != callerID {
		return fmt.Errorf("%w: audio memory belongs to another user", common.ErrForbidden)
	}
	if err := s.repo.Delete(ctx, id, callerID); err != nil {
		return err
	}

	key := memory.BlobKey
	if s.blobs == nil || !ownsBlob(memory.UserID, key) {
		return nil
	}
	if err := s.blobs.Remove(ctx, key); err != nil {
		pkglogger.Ctx(ctx).Warn().Err(err).Str("key", key).Str("audio_id", id).Msg("audio blob removal failed")
	}
	return nil
}

func validateAudioMeta(req *domain.AudioMemoryRequest) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: user_id is required", common.ErrValidation)
	}
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	return nil
}

func ownsBlob(userID, key string) bool {
	return key != "" && strings.HasPrefix(key, storage.AudioPrefix+"/"+userID+"-")
}

func newAudioMemory(req *domain.AudioMemoryRequest, url string, now time.Time) *domain.AudioMemory {
	return &domain.AudioMemory{
		UserID:          req.UserID,
		Title:           req.Title,
		Description:     req.Description,
		AudioURL:        url,
		DurationSeconds: req.DurationSeconds,
		CreatedAt:       now,
	}
}
