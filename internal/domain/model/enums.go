// Package model holds the domain types shared by the deployment monitor,
// the incident pipeline and the adapters.
package model

import "strings"

// DeploymentStatus represents the state of a deployment as reported by the platform.
type DeploymentStatus string

const (
	DeploymentStatusBuilding DeploymentStatus = "building"
	DeploymentStatusSuccess  DeploymentStatus = "success"
	DeploymentStatusFailed   DeploymentStatus = "failed"
	DeploymentStatusCrashed  DeploymentStatus = "crashed"
	DeploymentStatusUnknown  DeploymentStatus = "unknown"
)

// IsFailure reports whether the status represents a failed deployment that
// should be turned into an incident.
func (s DeploymentStatus) IsFailure() bool {
	return s == DeploymentStatusFailed || s == DeploymentStatusCrashed
}

// ParseDeploymentStatus maps a platform status string (case-insensitive) to a
// DeploymentStatus. Intermediate platform states all collapse to building.
func ParseDeploymentStatus(raw string) DeploymentStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BUILDING", "DEPLOYING", "INITIALIZING", "QUEUED", "WAITING":
		return DeploymentStatusBuilding
	case "SUCCESS":
		return DeploymentStatusSuccess
	case "FAILED":
		return DeploymentStatusFailed
	case "CRASHED":
		return DeploymentStatusCrashed
	default:
		return DeploymentStatusUnknown
	}
}

// FailureCategory groups signatures into broad classes of failure.
type FailureCategory string

const (
	CategoryDependency   FailureCategory = "dependency"
	CategorySyntax       FailureCategory = "syntax"
	CategoryTimeout      FailureCategory = "timeout"
	CategoryRuntime      FailureCategory = "runtime"
	CategoryConfig       FailureCategory = "config"
	CategoryUnclassified FailureCategory = "unclassified"
)
