package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeliveryDelay is the simulated postal delay of a penpal letter
const DeliveryDelay = 120 * time.Second

// LetterStatus is a penpal letter's delivery stage
type LetterStatus string

const (
	LetterInTransit LetterStatus = "in-transit"
	LetterDelivered LetterStatus = "delivered"
	LetterRead      LetterStatus = "read"
)

// PenpalLetter is a directional timed message (penpal_letters table)
type PenpalLetter struct {
	ID           string       `gorm:"column:id;primaryKey;size:36" json:"id"`
	FromUserID   string       `gorm:"column:from_user_id;size:64;not null;index" json:"from_user_id"`
	ToUserID     string       `gorm:"column:to_user_id;size:64;not null;index" json:"to_user_id"`
	Content      string       `gorm:"column:content;type:text;not null" json:"content"`
	Status       LetterStatus `gorm:"column:status;size:16;not null;index:idx_penpal_letters_due,priority:1" json:"status"`
	DeliveryTime time.Time    `gorm:"column:delivery_time;index:idx_penpal_letters_due,priority:2" json:"delivery_time"`
	CreatedAt    time.Time    `gorm:"column:created_at;index" json:"created_at"`
}

func (PenpalLetter) TableName() string {
	return "penpal_letters"
}

// BeforeCreate assigns a UUID
func (l *PenpalLetter) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// IsDue reports whether the letter should have arrived by now
func (l *PenpalLetter) IsDue(now time.Time) bool {
	return !now.Before(l.DeliveryTime)
}

// SendLetterRequest is the POST /api/penpals/letters body
type SendLetterRequest struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Content    string `json:"content"`
}

// MailboxType selects inbox, outbox or both
type MailboxType string

const (
	MailboxInbox  MailboxType = "inbox"
	MailboxOutbox MailboxType = "outbox"
	MailboxAll    MailboxType = ""
)
