// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
)

// DeploymentSource defines the driven port for reading deployment status and
// logs from the hosting platform.
type DeploymentSource interface {
	// LatestDeployment returns the most recent deployment for the configured
	// project, or nil if the project has none. RawLog is not populated.
	LatestDeployment(ctx context.Context) (*model.DeploymentEvent, error)
	// FetchLogs returns the build and runtime log text for a deployment.
	FetchLogs(ctx context.Context, deploymentID string) (string, error)
}
