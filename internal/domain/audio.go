package domain

import (
	"io"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AudioMemory is a recorded voice note whose blob lives in the object store (audio_memories table)
type AudioMemory struct {
	ID              string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	UserID          string    `gorm:"column:user_id;size:64;not null;index" json:"user_id"`
	Title           string    `gorm:"column:title;size:255;not null" json:"title"`
	Description     *string   `gorm:"column:description;type:text" json:"description,omitempty"`
	AudioURL        string    `gorm:"column:audio_url;size:1024;not null" json:"audio_url"`
	BlobKey         string    `gorm:"column:blob_key;size:512" json:"-"` // set only for blobs uploaded through this service
	DurationSeconds *int      `gorm:"column:duration_seconds" json:"duration_seconds,omitempty"`
	CreatedAt       time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (AudioMemory) TableName() string {
	return "audio_memories"
}

// BeforeCreate assigns a UUID
func (a *AudioMemory) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AudioMemoryRequest is the metadata of POST /api/audio (form fields or JSON)
type AudioMemoryRequest struct {
	UserID          string  `json:"user_id" form:"user_id"`
	Title           string  `json:"title" form:"title"`
	Description     *string `json:"description" form:"description"`
	AudioURL        string  `json:"audio_url" form:"-"`
	DurationSeconds *int    `json:"duration_seconds" form:"duration"`
}

// AudioUpload is an uploaded blob handed to the service
type AudioUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
