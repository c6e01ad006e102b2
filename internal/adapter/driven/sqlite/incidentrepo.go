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
var _ driven.IncidentStore = (*IncidentRepo)(nil)

// IncidentRepo is the SQLite implementation of the IncidentStore port interface.
type IncidentRepo struct {
	db *DB
}

// NewIncidentRepo creates a new IncidentRepo backed by the given DB.
func NewIncidentRepo(db *DB) *IncidentRepo {
	return &IncidentRepo{db: db}
}

const incidentColumns = `id, deployment_id, status, service_name, category, matched_pattern, summary,
	matched_line, raw_log, prompt_path, error_detail_path, prompt, launched, launch_error, created_at`

// Create inserts a new incident.
func (r *IncidentRepo) Create(ctx context.Context, inc model.Incident) error {
	const query = `INSERT INTO incidents (` + incidentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.Writer.ExecContext(ctx, query,
		inc.ID,
		inc.DeploymentID,
		string(inc.Status),
		inc.ServiceName,
		string(inc.Category),
		inc.MatchedPattern,
		inc.Summary,
		inc.MatchedLine,
		inc.RawLog,
		inc.PromptPath,
		inc.ErrorDetailPath,
		inc.Prompt,
		boolToInt(inc.Launched),
		inc.LaunchError,
		formatTime(inc.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create incident for deployment %s: %w", inc.DeploymentID, err)
	}
	return nil
}

// GetByID returns the incident with the given id, or nil if it does not exist.
func (r *IncidentRepo) GetByID(ctx context.Context, id string) (*model.Incident, error) {
	const query = `SELECT ` + incidentColumns + ` FROM incidents WHERE id = ?`

	inc, err := scanIncident(r.db.Reader.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get incident %s: %w", id, err)
	}
	return &inc, nil
}

// ListRecent returns up to limit incidents, newest first.
func (r *IncidentRepo) ListRecent(ctx context.Context, limit int) ([]model.Incident, error) {
	const query = `SELECT ` + incidentColumns + ` FROM incidents ORDER BY created_at DESC, id LIMIT ?`

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	result := []model.Incident{}
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		result = append(result, inc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate incidents: %w", err)
	}
	return result, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanIncident(s scanner) (model.Incident, error) {
	var (
		inc       model.Incident
		status    string
		category  string
		launched  int
		createdAt string
	)

	err := s.Scan(
		&inc.ID,
		&inc.DeploymentID,
		&status,
		&inc.ServiceName,
		&category,
		&inc.MatchedPattern,
		&inc.Summary,
		&inc.MatchedLine,
		&inc.RawLog,
		&inc.PromptPath,
		&inc.ErrorDetailPath,
		&inc.Prompt,
		&launched,
		&inc.LaunchError,
		&createdAt,
	)
	if err != nil {
		return model.Incident{}, err
	}

	inc.Status = model.DeploymentStatus(status)
	inc.Category = model.FailureCategory(category)
	inc.Launched = launched != 0
	inc.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return model.Incident{}, fmt.Errorf("parse created_at for incident %s: %w", inc.ID, err)
	}
	return inc, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
