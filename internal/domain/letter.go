package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxLetterLength is the upper bound on an introductory letter, in characters
const MaxLetterLength = 500

// DefaultAuthorName is used when the author has no profile name
const DefaultAuthorName = "Anonymous"

// Letter is a user's single public self-introduction (letters table)
type Letter struct {
	ID           string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	UserID       string    `gorm:"column:user_id;size:64;not null;uniqueIndex:idx_letters_user" json:"user_id"`
	Content      string    `gorm:"column:content;type:text;not null" json:"content"`
	Country      string    `gorm:"column:country;size:100" json:"country"`
	AgeRange     string    `gorm:"column:age_range;size:20" json:"age_range"`
	WritingStyle string    `gorm:"column:writing_style;size:500" json:"writing_style"`
	AuthorName   string    `gorm:"column:author_name;size:100" json:"author_name"`
	CreatedAt    time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (Letter) TableName() string {
	return "letters"
}

// BeforeCreate assigns a UUID
func (l *Letter) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// LetterRequest is the create/update body
type LetterRequest struct {
	UserID       string `json:"user_id"`
	Content      string `json:"content"`
	Country      string `json:"country"`
	AgeRange     string `json:"age_range"`
	WritingStyle string `json:"writing_style"`
}

// LetterFields are the owner-mutable columns
type LetterFields struct {
	Content      string
	Country      string
	AgeRange     string
	WritingStyle string
}

// Fields extracts the mutable columns from the request
func (r *LetterRequest) Fields() LetterFields {
	return LetterFields{
		Content:      r.Content,
		Country:      r.Country,
		AgeRange:     r.AgeRange,
		WritingStyle: r.WritingStyle,
	}
}
