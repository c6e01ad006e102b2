package application

import (
	"sync"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
)

// DefaultNotificationLimit is the number of webhook deliveries kept in memory.
const DefaultNotificationLimit = 50

// NotificationLog keeps the most recent webhook deliveries for inspection.
// It is safe for concurrent use by HTTP handlers.
type NotificationLog struct {
	mu    sync.RWMutex
	items []model.Notification
	limit int
}

// NewNotificationLog creates a log holding at most limit entries.
// A non-positive limit uses DefaultNotificationLimit.
func NewNotificationLog(limit int) *NotificationLog {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	return &NotificationLog{limit: limit}
}

// Add appends n, dropping the oldest entries beyond the limit.
func (l *NotificationLog) Add(n model.Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = append(l.items, n)
	if over := len(l.items) - l.limit; over > 0 {
		l.items = append([]model.Notification(nil), l.items[over:]...)
	}
}

// List returns a copy of the stored notifications, oldest first.
func (l *NotificationLog) List() []model.Notification {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]model.Notification, len(l.items))
	copy(out, l.items)
	return out
}

// Clear removes all notifications and returns how many were dropped.
func (l *NotificationLog) Clear() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.items)
	l.items = nil
	return n
}
