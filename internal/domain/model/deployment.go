package model

import "time"

// DeploymentEvent is a single observation of a deployment, produced by a poll
// tick or a webhook delivery. It is treated as immutable once built.
type DeploymentEvent struct {
	ID          string
	ProjectID   string
	ServiceID   string
	ServiceName string
	Status      DeploymentStatus
	Timestamp   time.Time
	CommitSHA   string // Empty when the platform did not report one.
	RawLog      string // Empty until logs are fetched, unless delivered inline.
}

// HasLog reports whether the raw log text has already been populated.
func (e DeploymentEvent) HasLog() bool {
	return e.RawLog != ""
}

// LastSeenState is the only mutable state of the pipeline. It is passed into
// and returned from each processing call rather than held globally.
type LastSeenState struct {
	LastDeploymentID string
}
