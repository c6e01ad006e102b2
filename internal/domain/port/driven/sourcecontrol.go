package driven

import (
	"context"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
)

// SourceControl defines the driven port for looking up the commit a
// deployment was built from.
type SourceControl interface {
	FetchCommit(ctx context.Context, repoFullName string, ref string) (*model.CommitInfo, error)
}
