package repository

import (
	"context"
	"errors"

	"github.com/tegami/tegami-backend/internal/domain"
	"gorm.io/gorm"
)

// PenpalRepository penpal connection data access interface
type PenpalRepository interface {
	FindByID(ctx context.Context, id string) (*domain.PenpalConnection, error)
	FindBetween(ctx context.Context, a, b string) (*domain.PenpalConnection, error)
	ExistsAccepted(ctx context.Context, a, b string) (bool, error)
	Create(ctx context.Context, conn *domain.PenpalConnection) error
	Transition(ctx context.Context, id, recipientID string, from, to domain.PenpalStatus) error
	FindAcceptedForUser(ctx context.Context, userID string) ([]*domain.PenpalConnection, error)
	FindPendingForRecipient(ctx context.Context, userID string) ([]*domain.PenpalConnection, error)
	FindPendingByID(ctx context.Context, id string) (*domain.PenpalConnection, error)
}

type penpalRepository struct {
	db *gorm.DB
}

// NewPenpalRepository creates a new PenpalRepository
func NewPenpalRepository(db *gorm.DB) PenpalRepository {
	return &penpalRepository{db: db}
}

// FindByID finds a connection by id
func (r *penpalRepository) FindByID(ctx context.Context, id string) (*domain.PenpalConnection, error) {
	var conn domain.PenpalConnection
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&conn).Error; err != nil {
		return nil, translate(err, "penpal connection")
	}
	return &conn, nil
}

// FindBetween returns the connection for the pair in either order, or nil
func (r *penpalRepository) FindBetween(ctx context.Context, a, b string) (*domain.PenpalConnection, error) {
	var conn domain.PenpalConnection
	err := r.db.WithContext(ctx).
		Where("(user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)", a, b, b, a).
		First(&conn).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}

// ExistsAccepted reports whether a and b are accepted penpals
func (r *penpalRepository) ExistsAccepted(ctx context.Context, a, b string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.PenpalConnection{}).
		Where("pair_key = ? AND status = ?", domain.PairKey(a, b), domain.PenpalAccepted).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a connection; the pair_key unique index rejects a second row for the pair
func (r *penpalRepository) Create(ctx context.Context, conn *domain.PenpalConnection) error {
	return translate(r.db.WithContext(ctx).Create(conn).Error, "penpal connection")
}

// Transition moves a connection from -> to in one conditional write. Unknown id,
// wrong recipient and wrong current status all surface as not found.
func (r *penpalRepository) Transition(ctx context.Context, id, recipientID string, from, to domain.PenpalStatus) error {
	result := r.db.WithContext(ctx).Model(&domain.PenpalConnection{}).
		Where("id = ? AND user2_id = ? AND status = ?", id, recipientID, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "penpal request")
	}
	return nil
}

// FindAcceptedForUser returns accepted connections on either side of userID
func (r *penpalRepository) FindAcceptedForUser(ctx context.Context, userID string) ([]*domain.PenpalConnection, error) {
	var conns []*domain.PenpalConnection
	err := r.db.WithContext(ctx).
		Where("(user1_id = ? OR user2_id = ?) AND status = ?", userID, userID, domain.PenpalAccepted).
		Order("connected_at DESC").
		Find(&conns).Error
	return conns, err
}

// FindPendingForRecipient returns pending requests addressed to userID
func (r *penpalRepository) FindPendingForRecipient(ctx context.Context, userID string) ([]*domain.PenpalConnection, error) {
	var conns []*domain.PenpalConnection
	err := r.db.WithContext(ctx).
		Where("user2_id = ? AND status = ?", userID, domain.PenpalPending).
		Order("connected_at DESC").
		Find(&conns).Error
	return conns, err
}

// FindPendingByID finds a connection that is still pending
func (r *penpalRepository) FindPendingByID(ctx context.Context, id string) (*domain.PenpalConnection, error) {
	var conn domain.PenpalConnection
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, domain.PenpalPending).
		First(&conn).Error
	if err != nil {
		return nil, translate(err, "penpal request")
	}
	return &conn, nil
}
