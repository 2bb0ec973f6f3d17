package repository

import (
	"context"
	"time"

	"github.com/tegami/tegami-backend/internal/domain"
	"gorm.io/gorm"
)

// PenpalLetterRepository penpal letter data access interface
type PenpalLetterRepository interface {
	Create(ctx context.Context, letter *domain.PenpalLetter) error
	FindByID(ctx context.Context, id string) (*domain.PenpalLetter, error)
	FindMailbox(ctx context.Context, userID string, box domain.MailboxType) ([]*domain.PenpalLetter, error)
	FindDue(ctx context.Context, now time.Time, limit int) ([]*domain.PenpalLetter, error)
	MarkDelivered(ctx context.Context, ids []string) (int64, error)
	MarkRead(ctx context.Context, id, readerID string, now time.Time) error
}

type penpalLetterRepository struct {
	db *gorm.DB
}

// NewPenpalLetterRepository creates a new PenpalLetterRepository
func NewPenpalLetterRepository(db *gorm.DB) PenpalLetterRepository {
	return &penpalLetterRepository{db: db}
}

// Create inserts a letter
func (r *penpalLetterRepository) Create(ctx context.Context, letter *domain.PenpalLetter) error {
	return r.db.WithContext(ctx).Create(letter).Error
}

// FindByID finds a letter by id
func (r *penpalLetterRepository) FindByID(ctx context.Context, id string) (*domain.PenpalLetter, error) {
	var letter domain.PenpalLetter
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&letter).Error; err != nil {
		return nil, translate(err, "penpal letter")
	}
	return &letter, nil
}

// FindMailbox returns the inbox, outbox or both for userID, newest first
func (r *penpalLetterRepository) FindMailbox(ctx context.Context, userID string, box domain.MailboxType) ([]*domain.PenpalLetter, error) {
	q := r.db.WithContext(ctx).Model(&domain.PenpalLetter{})
	switch box {
	case domain.MailboxInbox:
		q = q.Where("to_user_id = ?", userID)
	case domain.MailboxOutbox:
		q = q.Where("from_user_id = ?", userID)
	default:
		q = q.Where("(from_user_id = ? OR to_user_id = ?)", userID, userID)
	}

	var letters []*domain.PenpalLetter
	err := q.Order("created_at DESC").Order("id DESC").Find(&letters).Error
	return letters, err
}

// FindDue returns in-transit letters whose delivery time has passed
func (r *penpalLetterRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]*domain.PenpalLetter, error) {
	var letters []*domain.PenpalLetter
	q := r.db.WithContext(ctx).
		Where("status = ? AND delivery_time <= ?", domain.LetterInTransit, now).
		Order("delivery_time ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&letters).Error
	return letters, err
}

// MarkDelivered promotes in-transit letters; rows already moved on are left alone
func (r *penpalLetterRepository) MarkDelivered(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&domain.PenpalLetter{}).
		Where("id IN ? AND status = ?", ids, domain.LetterInTransit).
		Update("status", domain.LetterDelivered)
	return result.RowsAffected, result.Error
}

// MarkRead sets status=read when readerID is the recipient and the letter has arrived
func (r *penpalLetterRepository) MarkRead(ctx context.Context, id, readerID string, now time.Time) error {
	result := r.db.WithContext(ctx).Model(&domain.PenpalLetter{}).
		Where("id = ? AND to_user_id = ?", id, readerID).
		Where("(status = ? OR (status = ? AND delivery_time <= ?))",
			domain.LetterDelivered, domain.LetterInTransit, now).
		Update("status", domain.LetterRead)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "penpal letter")
	}
	return nil
}
