package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncidentRepo_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIncidentRepo(db)
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 10, 0, 0, 123, time.UTC)

	inc := makeIncident("inc-1", "dep-1", created)
	inc.Launched = false
	inc.LaunchError = "ide executable not found"
	require.NoError(t, repo.Create(ctx, inc))

	got, err := repo.GetByID(ctx, "inc-1")

	require.NoError(t, err)
	require.NotNil(t, got)
	if diff := cmp.Diff(inc, *got, cmpopts.EquateApproxTime(0)); diff != "" {
		t.Errorf("incident round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestIncidentRepo_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIncidentRepo(db)

	got, err := repo.GetByID(context.Background(), "nope")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIncidentRepo_DuplicateIDFails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIncidentRepo(db)
	ctx := context.Background()
	inc := makeIncident("inc-1", "dep-1", time.Now())

	require.NoError(t, repo.Create(ctx, inc))
	assert.Error(t, repo.Create(ctx, inc))
}

func TestIncidentRepo_ListRecentNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIncidentRepo(db)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		inc := makeIncident(fmt.Sprintf("inc-%d", i), fmt.Sprintf("dep-%d", i), base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, repo.Create(ctx, inc))
	}

	got, err := repo.ListRecent(ctx, 3)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "inc-4", got[0].ID)
	assert.Equal(t, "inc-3", got[1].ID)
	assert.Equal(t, "inc-2", got[2].ID)
}

func TestIncidentRepo_ListRecentEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIncidentRepo(db)

	got, err := repo.ListRecent(context.Background(), 10)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestIncidentRepo_ListRecentOrdersSubSecondTimes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewIncidentRepo(db)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, makeIncident("whole", "dep-1", base)))
	require.NoError(t, repo.Create(ctx, makeIncident("fraction", "dep-2", base.Add(500*time.Millisecond))))

	got, err := repo.ListRecent(ctx, 10)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "fraction", got[0].ID)
	assert.Equal(t, "whole", got[1].ID)
}
