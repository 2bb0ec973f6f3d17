package domain

import "time"

// Profile is the auth provider's user profile (profiles table, read-only here)
type Profile struct {
	ID           string    `gorm:"column:id;primaryKey;size:64" json:"id"`
	Email        string    `gorm:"column:email;size:255" json:"email"`
	FullName     *string   `gorm:"column:full_name;size:255" json:"full_name,omitempty"`
	Country      *string   `gorm:"column:country;size:100" json:"country,omitempty"`
	AgeRange     *string   `gorm:"column:age_range;size:20" json:"age_range,omitempty"`
	WritingStyle *string   `gorm:"column:writing_style;size:500" json:"writing_style,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

// DisplayName returns the profile's full name, or DefaultAuthorName
func (p *Profile) DisplayName() string {
	if p == nil || p.FullName == nil || *p.FullName == "" {
		return DefaultAuthorName
	}
	return *p.FullName
}
