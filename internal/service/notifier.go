package service

import (
	"time"

	"github.com/tegami/tegami-backend/internal/domain"
)

// Notifier pushes real-time events to users; the websocket hub implements it
type Notifier interface {
	Notify(n domain.Notification)
}

type nopNotifier struct{}

func (nopNotifier) Notify(domain.Notification) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

// utcNow is the default clock. Millisecond precision survives every supported store.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
