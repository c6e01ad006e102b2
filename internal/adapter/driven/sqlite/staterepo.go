package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
	"github.com/ericfisherdev/deployfix/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.StateStore = (*StateRepo)(nil)

// StateRepo is the SQLite implementation of the StateStore port interface.
// It stores a single row holding the last processed deployment id.
type StateRepo struct {
	db *DB
}

// NewStateRepo creates a new StateRepo backed by the given DB.
func NewStateRepo(db *DB) *StateRepo {
	return &StateRepo{db: db}
}

// Load returns the stored state, or the zero state if nothing was saved yet.
func (r *StateRepo) Load(ctx context.Context) (model.LastSeenState, error) {
	const query = `SELECT last_deployment_id FROM last_seen WHERE id = 1`

	var state model.LastSeenState
	err := r.db.Reader.QueryRowContext(ctx, query).Scan(&state.LastDeploymentID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LastSeenState{}, nil
	}
	if err != nil {
		return model.LastSeenState{}, fmt.Errorf("load last seen deployment: %w", err)
	}
	return state, nil
}

// Save replaces the stored state.
func (r *StateRepo) Save(ctx context.Context, state model.LastSeenState) error {
	const query = `INSERT INTO last_seen (id, last_deployment_id, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET last_deployment_id = excluded.last_deployment_id, updated_at = excluded.updated_at`

	if _, err := r.db.Writer.ExecContext(ctx, query, state.LastDeploymentID); err != nil {
		return fmt.Errorf("save last seen deployment %s: %w", state.LastDeploymentID, err)
	}
	return nil
}
