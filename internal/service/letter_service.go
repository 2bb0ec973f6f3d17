package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tegami/tegami-backend/internal/common"
	"github.com/tegami/tegami-backend/internal/domain"
	"github.com/tegami/tegami-backend/internal/repository"
	"github.com/tegami/tegami-backend/pkg/cache"
	pkglogger "github.com/tegami/tegami-backend/pkg/logger"
)

// LetterService business logic for the public letter wall
type LetterService interface {
	ListAll(ctx context.Context) ([]*domain.Letter, error)
	GetByUser(ctx context.Context, userID string) (*domain.Letter, error)
	Create(ctx context.Context, req *domain.LetterRequest) (*domain.Letter, error)
	Update(ctx context.Context, id string, req *domain.LetterRequest) (*domain.Letter, error)
}

type letterService struct {
	repo     repository.LetterRepository
	profiles repository.ProfileRepository
	cache    cache.Service
	now      func() time.Time
}

// NewLetterService creates a new LetterService. cacheSvc may be nil.
func NewLetterService(repo repository.LetterRepository, profiles repository.ProfileRepository, cacheSvc cache.Service) LetterService {
	if cacheSvc == nil {
		cacheSvc = cache.NewService(nil)
	}
	return &letterService{
		repo:     repo,
		profiles: profiles,
		cache:    cacheSvc,
		now:      utcNow,
	}
}

// ListAll returns every letter, newest first
func (s *letterService) ListAll(ctx context.Context) ([]*domain.Letter, error) {
	var cached []*domain.Letter
	if err := s.cache.Get(ctx, cache.KeyAllLetters, &cached); err == nil {
		return cached, nil
	}

	letters, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if letters == nil {
		letters = []*domain.Letter{}
	}

	if err := s.cache.Set(ctx, cache.KeyAllLetters, letters, cache.TTLLetters); err != nil {
		pkglogger.Ctx(ctx).Debug().Err(err).Msg("letters cache set skipped")
	}
	return letters, nil
}

// GetByUser returns the letter owned by userID
func (s *letterService) GetByUser(ctx context.Context, userID string) (*domain.Letter, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", common.ErrValidation)
	}
	return s.repo.FindByUserID(ctx, userID)
}

// Create publishes the caller's introductory letter
func (s *letterService) Create(ctx context.Context, req *domain.LetterRequest) (*domain.Letter, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", common.ErrValidation)
	}
	if err := validateLetterContent(req.Content); err != nil {
		return nil, err
	}

	letter := &domain.Letter{
		UserID:       req.UserID,
		Content:      req.Content,
		Country:      req.Country,
		AgeRange:     req.AgeRange,
		WritingStyle: req.WritingStyle,
		AuthorName:   s.authorName(ctx, req.UserID),
		CreatedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, letter); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	lettersSentTotal.WithLabelValues(groupLetters).Inc()
	return letter, nil
}

// Update rewrites the owner-mutable fields of a letter
func (s *letterService) Update(ctx context.Context, id string, req *domain.LetterRequest) (*domain.Letter, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != req.UserID {
		return nil, fmt.Errorf("%w: letter belongs to another user", common.ErrForbidden)
	}
	if err := validateLetterContent(req.Content); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, req.Fields()); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	return s.repo.FindByID(ctx, id)
}

func (s *letterService) authorName(ctx context.Context, userID string) string {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			pkglogger.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("profile lookup failed")
		}
		return domain.DefaultAuthorName
	}
	return profile.DisplayName()
}

func (s *letterService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.KeyAllLetters); err != nil {
		pkglogger.Ctx(ctx).Warn().Err(err).Msg("letters cache invalidation failed")
	}
}

func validateLetterContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: content is required", common.ErrValidation)
	}
	if utf8.RuneCountInString(content) > domain.MaxLetterLength {
		return fmt.Errorf("%w: content must be at most %d characters", common.ErrValidation, domain.MaxLetterLength)
	}
	return nil
}
