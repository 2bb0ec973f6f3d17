package repository

import (
	"context"

	"github.com/tegami/tegami-backend/internal/domain"
	"gorm.io/gorm"
)

// AudioRepository audio memory data access interface
type AudioRepository interface {
	FindByUserID(ctx context.Context, userID string) ([]*domain.AudioMemory, error)
	FindByID(ctx context.Context, id string) (*domain.AudioMemory, error)
	Create(ctx context.Context, memory *domain.AudioMemory) error
	Delete(ctx context.Context, id, userID string) error
}

type audioRepository struct {
	db *gorm.DB
}

// NewAudioRepository creates a new AudioRepository
func NewAudioRepository(db *gorm.DB) AudioRepository {
	return &audioRepository{db: db}
}

// FindByUserID returns a user's memories, newest first
func (r *audioRepository) FindByUserID(ctx context.Context, userID string) ([]*domain.AudioMemory, error) {
	var memories []*domain.AudioMemory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&memories).Error
	return memories, err
}

// FindByID finds a memory by id
func (r *audioRepository) FindByID(ctx context.Context, id string) (*domain.AudioMemory, error) {
	var memory domain.AudioMemory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&memory).Error; err != nil {
		return nil, translate(err, "audio memory")
	}
	return &memory, nil
}

// Create inserts a memory
func (r *audioRepository) Create(ctx context.Context, memory *domain.AudioMemory) error {
	return r.db.WithContext(ctx).Create(memory).Error
}

// Delete removes a memory owned by userID
func (r *audioRepository) Delete(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.AudioMemory{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "audio memory")
	}
	return nil
}
