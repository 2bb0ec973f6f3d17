package repository

import (
	"context"

	"github.com/tegami/tegami-backend/internal/domain"
	"gorm.io/gorm"
)

// LetterRepository letter data access interface
type LetterRepository interface {
	FindAll(ctx context.Context) ([]*domain.Letter, error)
	FindByID(ctx context.Context, id string) (*domain.Letter, error)
	FindByUserID(ctx context.Context, userID string) (*domain.Letter, error)
	FindByUserIDs(ctx context.Context, userIDs []string) ([]*domain.Letter, error)
	Create(ctx context.Context, letter *domain.Letter) error
	Update(ctx context.Context, id string, fields domain.LetterFields) error
}

type letterRepository struct {
	db *gorm.DB
}

// NewLetterRepository creates a new LetterRepository
func NewLetterRepository(db *gorm.DB) LetterRepository {
	return &letterRepository{db: db}
}

// FindAll returns every letter, newest first
func (r *letterRepository) FindAll(ctx context.Context) ([]*domain.Letter, error) {
	var letters []*domain.Letter
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&letters).Error
	return letters, err
}

// FindByID finds a letter by its id
func (r *letterRepository) FindByID(ctx context.Context, id string) (*domain.Letter, error) {
	var letter domain.Letter
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&letter).Error
	if err != nil {
		return nil, translate(err, "letter")
	}
	return &letter, nil
}

// FindByUserID finds the letter owned by userID
func (r *letterRepository) FindByUserID(ctx context.Context, userID string) (*domain.Letter, error) {
	var letter domain.Letter
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&letter).Error
	if err != nil {
		return nil, translate(err, "letter")
	}
	return &letter, nil
}

// FindByUserIDs loads the letters of several users in one query
func (r *letterRepository) FindByUserIDs(ctx context.Context, userIDs []string) ([]*domain.Letter, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var letters []*domain.Letter
	err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&letters).Error
	return letters, err
}

// Create inserts a letter; a second letter for the same user is a conflict
func (r *letterRepository) Create(ctx context.Context, letter *domain.Letter) error {
	return translate(r.db.WithContext(ctx).Create(letter).Error, "letter for this user")
}

// Update overwrites the owner-mutable columns. RowsAffected is not checked:
// mysql reports 0 for an update that leaves the row unchanged.
func (r *letterRepository) Update(ctx context.Context, id string, fields domain.LetterFields) error {
	return r.db.WithContext(ctx).Model(&domain.Letter{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":       fields.Content,
			"country":       fields.Country,
			"age_range":     fields.AgeRange,
			"writing_style": fields.WritingStyle,
		}).Error
}
