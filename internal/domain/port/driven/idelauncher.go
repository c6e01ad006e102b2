package driven

import (
	"context"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
)

// IDELauncher starts the local IDE on a repository with the incident's
// artifacts open. Launch does not wait for the IDE to exit.
type IDELauncher interface {
	Launch(ctx context.Context, repoPath string, artifacts model.ArtifactSet) (model.ProcessHandle, error)
}
