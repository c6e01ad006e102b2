package driven

import (
	"context"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
)

// StateStore persists the last-seen deployment so that a restart does not
// relaunch the IDE for an incident that was already handled.
type StateStore interface {
	Load(ctx context.Context) (model.LastSeenState, error)
	Save(ctx context.Context, state model.LastSeenState) error
}
