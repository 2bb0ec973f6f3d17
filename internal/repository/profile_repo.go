package repository

import (
	"context"

	"github.com/tegami/tegami-backend/internal/domain"
	"gorm.io/gorm"
)

// ProfileRepository reads auth-provider profiles
type ProfileRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// FindByID finds a profile by user id
func (r *profileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	var p domain.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err, "profile")
	}
	return &p, nil
}
