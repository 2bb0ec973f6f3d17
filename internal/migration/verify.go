package migration

import (
	"time"

	"github.com/tegami/tegami-backend/internal/domain"
	"gorm.io/gorm"
)

// TableStatus is one owned table's presence and row count
type TableStatus struct {
	Table  string
	Exists bool
	Rows   int64
}

// Plan reports which tables exist and how many rows they hold
func Plan(db *gorm.DB) ([]TableStatus, error) {
	stmt := &gorm.Statement{DB: db}
	var out []TableStatus
	for _, m := range Models() {
		if err := stmt.Parse(m); err != nil {
			return nil, err
		}
		st := TableStatus{Table: stmt.Schema.Table, Exists: db.Migrator().HasTable(m)}
		if st.Exists {
			if err := db.Model(m).Count(&st.Rows).Error; err != nil {
				return nil, err
			}
		}
		out = append(out, st)
	}
	return out, nil
}

// Finding is a data integrity check result; Count is the number of offending rows
type Finding struct {
	Check string
	Count int64
}

// Verify runs integrity checks that the unique indexes cannot cover for rows
// written before they existed
func Verify(db *gorm.DB, now time.Time) ([]Finding, error) {
	var dupLetters int64
	err := db.Raw(`SELECT COUNT(*) FROM (
		SELECT user_id FROM letters GROUP BY user_id HAVING COUNT(*) > 1
	) d`).Scan(&dupLetters).Error
	if err != nil {
		return nil, err
	}

	var dupPairs int64
	err = db.Raw(`SELECT COUNT(*) FROM (
		SELECT pair_key FROM penpals GROUP BY pair_key HAVING COUNT(*) > 1
	) d`).Scan(&dupPairs).Error
	if err != nil {
		return nil, err
	}

	var selfPairs int64
	if err := db.Model(&domain.PenpalConnection{}).Where("user1_id = user2_id").Count(&selfPairs).Error; err != nil {
		return nil, err
	}

	var overdue int64
	err = db.Model(&domain.PenpalLetter{}).
		Where("status = ? AND delivery_time <= ?", domain.LetterInTransit, now).
		Count(&overdue).Error
	if err != nil {
		return nil, err
	}

	return []Finding{
		{Check: "users with more than one letter", Count: dupLetters},
		{Check: "duplicate penpal pairs", Count: dupPairs},
		{Check: "self penpal connections", Count: selfPairs},
		{Check: "overdue in-transit letters", Count: overdue},
	}, nil
}
