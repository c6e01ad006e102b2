package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/deployfix/internal/domain/model"
)

// setupTestDB returns a migrated in-memory database private to the test.
// Writer and reader share it through cache=shared under a name derived from t.Name().
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)",
		url.PathEscape(t.Name()),
	)

	open := func(maxConns int) *sql.DB {
		conn, err := sql.Open("sqlite", dsn)
		require.NoError(t, err)
		conn.SetMaxOpenConns(maxConns)
		require.NoError(t, conn.PingContext(context.Background()))
		return conn
	}

	// Writer first: the shared in-memory database lives as long as one connection is open.
	db := &DB{Writer: open(1), Reader: open(4)}
	t.Cleanup(func() { _ = db.Close() })

	_, err := RunMigrations(db.Writer)
	require.NoError(t, err)

	return db
}

// makeIncident builds an incident with sensible defaults for repo tests.
func makeIncident(id, deploymentID string, createdAt time.Time) model.Incident {
	return model.Incident{
		ID:              id,
		DeploymentID:    deploymentID,
		Status:          model.DeploymentStatusFailed,
		ServiceName:     "web",
		Category:        model.CategoryDependency,
		MatchedPattern:  "python-missing-module",
		Summary:         "Python module 'requests' is not installed in the build image",
		MatchedLine:     "ModuleNotFoundError: No module named 'requests'",
		RawLog:          "Traceback (most recent call last):\nModuleNotFoundError: No module named 'requests'\n",
		PromptPath:      "/tmp/deployfix_prompt.md",
		ErrorDetailPath: "/tmp/deployfix_error.log",
		Prompt:          "# Fix failed deployment\n",
		Launched:        true,
		CreatedAt:       createdAt,
	}
}
