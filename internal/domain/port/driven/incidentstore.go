package driven

import (
	"context"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
)

// IncidentStore defines the driven port for recording processed incidents.
type IncidentStore interface {
	Create(ctx context.Context, incident model.Incident) error
	GetByID(ctx context.Context, id string) (*model.Incident, error)
	ListRecent(ctx context.Context, limit int) ([]model.Incident, error)
}
