package repository

import (
	"context"

	"github.com/tegami/tegami-backend/internal/domain"
	"gorm.io/gorm"
)

// JournalRepository journal entry data access interface
type JournalRepository interface {
	FindByUserID(ctx context.Context, userID string) ([]*domain.JournalEntry, error)
	FindByID(ctx context.Context, id string) (*domain.JournalEntry, error)
	Create(ctx context.Context, entry *domain.JournalEntry) error
	Delete(ctx context.Context, id, userID string) error
	MoodCounts(ctx context.Context, userID string) ([]domain.MoodCount, error)
}

type journalRepository struct {
	db *gorm.DB
}

// NewJournalRepository creates a new JournalRepository
func NewJournalRepository(db *gorm.DB) JournalRepository {
	return &journalRepository{db: db}
}

// FindByUserID returns a user's entries, newest first
func (r *journalRepository) FindByUserID(ctx context.Context, userID string) ([]*domain.JournalEntry, error) {
	var entries []*domain.JournalEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

// FindByID finds an entry by id
func (r *journalRepository) FindByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	var entry domain.JournalEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		return nil, translate(err, "journal entry")
	}
	return &entry, nil
}

// Create inserts an entry
func (r *journalRepository) Create(ctx context.Context, entry *domain.JournalEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Delete removes an entry owned by userID
func (r *journalRepository) Delete(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.JournalEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "journal entry")
	}
	return nil
}

// MoodCounts returns the per-mood histogram, most frequent first
func (r *journalRepository) MoodCounts(ctx context.Context, userID string) ([]domain.MoodCount, error) {
	var counts []domain.MoodCount
	err := r.db.WithContext(ctx).Model(&domain.JournalEntry{}).
		Select("mood, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("mood").
		Order("count DESC").
		Order("mood ASC").
		Scan(&counts).Error
	return counts, err
}
