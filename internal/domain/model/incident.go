package model

import "time"

// Incident records one detected failed deployment and what was done about it.
type Incident struct {
	ID              string
	DeploymentID    string
	Status          DeploymentStatus
	ServiceName     string
	Category        FailureCategory
	MatchedPattern  string
	Summary         string
	MatchedLine     string
	RawLog          string
	PromptPath      string
	ErrorDetailPath string
	Prompt          string
	Launched        bool
	LaunchError     string
	CreatedAt       time.Time
}
