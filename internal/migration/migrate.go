package migration

import (
	"github.com/tegami/tegami-backend/internal/domain"
	"gorm.io/gorm"
)

// Models lists every table owned by this service, in creation order.
// profiles is written by the auth provider; AutoMigrate only creates it when missing.
func Models() []interface{} {
	return []interface{}{
		&domain.Profile{},
		&domain.Letter{},
		&domain.PenpalConnection{},
		&domain.PenpalLetter{},
		&domain.JournalEntry{},
		&domain.AudioMemory{},
	}
}

// Run executes AutoMigrate for all tables. Existing tables gain missing
// columns and indexes; nothing is dropped.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
