package model

import "time"

// Notification is a webhook delivery kept in the in-memory history.
type Notification struct {
	ReceivedAt   time.Time
	Event        string
	DeploymentID string
	Payload      map[string]any
}
