package domain

// Notification event types pushed to connected clients
const (
	EventPenpalRequest   = "penpal_request"
	EventPenpalAccepted  = "penpal_accepted"
	EventLetterDelivered = "letter_delivered"
)

// Notification is a real-time event addressed to one user
type Notification struct {
	Type    string      `json:"type"`
	UserID  string      `json:"user_id"`
	Payload interface{} `json:"payload,omitempty"`
}
