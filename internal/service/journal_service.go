package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tegami/tegami-backend/internal/common"
	"github.com/tegami/tegami-backend/internal/domain"
	"github.com/tegami/tegami-backend/internal/repository"
)

// JournalService private mood journal
type JournalService interface {
	ListByUser(ctx context.Context, userID string) ([]*domain.JournalEntry, error)
	Create(ctx context.Context, req *domain.CreateJournalRequest) (*domain.JournalEntry, error)
	Delete(ctx context.Context, id, callerID string) error
	MoodStats(ctx context.Context, userID string) ([]domain.MoodCount, error)
	Moods() []string
}

type journalService struct {
	repo repository.JournalRepository
	now  func() time.Time
}

// NewJournalService creates a new JournalService
func NewJournalService(repo repository.JournalRepository) JournalService {
	return &journalService{repo: repo, now: utcNow}
}

func (s *journalService) ListByUser(ctx context.Context, userID string) ([]*domain.JournalEntry, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", common.ErrValidation)
	}
	entries, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*domain.JournalEntry{}
	}
	return entries, nil
}

// Create validates and stores an entry
func (s *journalService) Create(ctx context.Context, req *domain.CreateJournalRequest) (*domain.JournalEntry, error) {
	switch {
	case req.UserID == "":
		return nil, fmt.Errorf("%w: user_id is required", common.ErrValidation)
	case strings.TrimSpace(req.Title) == "":
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	case strings.TrimSpace(req.Content) == "":
		return nil, fmt.Errorf("%w: content is required", common.ErrValidation)
	case !domain.IsValidMood(req.Mood):
		return nil, fmt.Errorf("%w: unknown mood %q", common.ErrValidation, req.Mood)
	case req.MoodIntensity < 1 || req.MoodIntensity > 5:
		return nil, fmt.Errorf("%w: mood_intensity must be between 1 and 5", common.ErrValidation)
	}

	entry := &domain.JournalEntry{
		UserID:        req.UserID,
		Title:         req.Title,
		Content:       req.Content,
		Mood:          req.Mood,
		MoodIntensity: req.MoodIntensity,
		Tags:          normalizeTags(req.Tags),
		CreatedAt:     s.now(),
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	journalEntriesTotal.WithLabelValues(string(entry.Mood)).Inc()
	return entry, nil
}

// Delete removes an entry owned by callerID
func (s *journalService) Delete(ctx context.Context, id, callerID string) error {
	if callerID == "" {
		return fmt.Errorf("%w: user_id is required", common.ErrValidation)
	}
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if entry.UserID != callerID {
		return fmt.Errorf("%w: journal entry belongs to another user", common.ErrForbidden)
	}
	return s.repo.Delete(ctx, id, callerID)
}

// MoodStats counts entries per mood, most frequent first
func (s *journalService) MoodStats(ctx context.Context, userID string) ([]domain.MoodCount, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", common.ErrValidation)
	}
	counts, err := s.repo.MoodCounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = []domain.MoodCount{}
	}
	return counts, nil
}

func (s *journalService) Moods() []string {
	out := make([]string, len(domain.Moods))
	copy(out, domain.Moods)
	return out
}

// normalizeTags trims, drops empties and dedupes while keeping order
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
