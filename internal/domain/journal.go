package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Moods is the closed set of journal mood tags
var Moods = []string{
	"happy", "excited", "grateful", "peaceful", "content", "neutral",
	"tired", "stressed", "anxious", "sad", "frustrated", "overwhelmed",
}

// IsValidMood reports whether mood belongs to Moods
func IsValidMood(mood string) bool {
	for _, m := range Moods {
		if m == mood {
			return true
		}
	}
	return false
}

// JournalEntry is a private mood-tagged entry (journal_entries table)
type JournalEntry struct {
	ID            string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	UserID        string    `gorm:"column:user_id;size:64;not null;index" json:"user_id"`
	Title         string    `gorm:"column:title;size:255;not null" json:"title"`
	Content       string    `gorm:"column:content;type:text;not null" json:"content"`
	Mood          string    `gorm:"column:mood;size:32;not null" json:"mood"`
	MoodIntensity int       `gorm:"column:mood_intensity;not null" json:"mood_intensity"`
	Tags          []string  `gorm:"column:tags;type:text;serializer:json" json:"tags"`
	CreatedAt     time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (JournalEntry) TableName() string {
	return "journal_entries"
}

// BeforeCreate assigns a UUID
func (e *JournalEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// CreateJournalRequest is the POST /api/journal body
type CreateJournalRequest struct {
	UserID        string   `json:"user_id"`
	Title         string   `json:"title" binding:"required"`
	Content       string   `json:"content" binding:"required"`
	Mood          string   `json:"mood" binding:"required,mood"`
	MoodIntensity int      `json:"mood_intensity" binding:"required,min=1,max=5"`
	Tags          []string `json:"tags"`
}

// MoodCount is one row of the mood histogram
type MoodCount struct {
	Mood  string `json:"mood"`
	Count int64  `json:"count"`
}
