package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PenpalStatus is the connection state
type PenpalStatus string

const (
	PenpalPending  PenpalStatus = "pending"
	PenpalAccepted PenpalStatus = "accepted"
	PenpalDeclined PenpalStatus = "declined"
)

// PenpalConnection links an initiator (User1) to a recipient (User2) (penpals table)
type PenpalConnection struct {
	ID          string       `gorm:"column:id;primaryKey;size:36" json:"id"`
	User1ID     string       `gorm:"column:user1_id;size:64;not null;index" json:"user1_id"`
	User2ID     string       `gorm:"column:user2_id;size:64;not null;index" json:"user2_id"`
	Status      PenpalStatus `gorm:"column:status;size:16;not null;index" json:"status"`
	ConnectedAt time.Time    `gorm:"column:connected_at" json:"connected_at"`
	// PairKey is the normalized unordered pair; its unique index allows one row per pair
	PairKey string `gorm:"column:pair_key;size:130;not null;uniqueIndex:idx_penpals_pair" json:"-"`
}

func (PenpalConnection) TableName() string {
	return "penpals"
}

// BeforeCreate assigns a UUID and the pair key
func (p *PenpalConnection) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.PairKey = PairKey(p.User1ID, p.User2ID)
	return nil
}

// PairKey orders the two ids so (a,b) and (b,a) collide
func PairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// OtherParty returns the user on the far side of the connection from userID
func (p *PenpalConnection) OtherParty(userID string) string {
	if p.User1ID == userID {
		return p.User2ID
	}
	return p.User1ID
}

// PenpalRequest is the POST /api/penpals body
type PenpalRequest struct {
	User1ID string `json:"user1_id"`
	User2ID string `json:"user2_id"`
}

// PenpalActionRequest is the accept/decline body
type PenpalActionRequest struct {
	UserID string `json:"userId"`
}

// PenpalUser holds display fields for one side of a connection
type PenpalUser struct {
	FullName     string `json:"full_name"`
	Country      string `json:"country"`
	WritingStyle string `json:"writing_style"`
}

// PenpalWithUsers is a connection enriched with both parties' display fields
type PenpalWithUsers struct {
	PenpalConnection
	User1 PenpalUser `json:"user1"`
	User2 PenpalUser `json:"user2"`
}

// PenpalUserFromLetter builds display fields, falling back to defaults when letter is nil
func PenpalUserFromLetter(l *Letter) PenpalUser {
	u := PenpalUser{FullName: "Penpal User", Country: "Unknown", WritingStyle: "Friendly"}
	if l == nil {
		return u
	}
	if l.AuthorName != "" {
		u.FullName = l.AuthorName
	}
	if l.Country != "" {
		u.Country = l.Country
	}
	if l.WritingStyle != "" {
		u.WritingStyle = l.WritingStyle
	}
	return u
}

// RequestDetails is a pending request plus the initiator's introductory letter
type RequestDetails struct {
	Request *PenpalConnection `json:"request"`
	Letter  *Letter           `json:"letter"`
}
