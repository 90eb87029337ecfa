package itinerary

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wayfare/wayfare/internal/test_utils"
)

func TestRepositoryImpl_LoadAbsentDocumentIsEmpty(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)

	doc, err := repo.Load(context.Background(), "user:1")

	require.NoError(t, err)
	assert.Empty(t, doc.Events)
	assert.Zero(t, doc.Version)
}

func TestRepositoryImpl_ReplaceRoundTrip(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)
	events := []Event{
		{ID: "a", Name: "Museum", Cost: 20, Date: "2024-05-01", Time: "10:00", Category: "Custom Event", Type: EventTypeManual},
		{ID: "flight:BK123:0-0", Name: "Flight LHR - JFK", Cost: 300, Date: "2024-05-03", Time: "08:30", Category: "BA117", Type: EventTypeFlight},
	}

	version, err := repo.Replace(context.Background(), "user:1", events, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	doc, err := repo.Load(context.Background(), "user:1")
	require.NoError(t, err)
	assert.Equal(t, events, doc.Events)
	assert.Equal(t, int64(1), doc.Version)
}

func TestRepositoryImpl_ReplaceOverwritesWholeDocument(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)

	_, err := repo.Replace(context.Background(), "user:1", []Event{{ID: "a"}, {ID: "b"}}, 0)
	require.NoError(t, err)
	_, err = repo.Replace(context.Background(), "user:1", []Event{{ID: "c"}}, 1)
	require.NoError(t, err)

	doc, err := repo.Load(context.Background(), "user:1")
	require.NoError(t, err)
	require.Len(t, doc.Events, 1)
	assert.Equal(t, "c", doc.Events[0].ID)
}

func TestRepositoryImpl_ReplaceDetectsStaleVersion(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)

	_, err := repo.Replace(context.Background(), "trip:t1", []Event{{ID: "a"}}, 0)
	require.NoError(t, err)

	// A second writer still holding version 0 must not overwrite version 1.
	_, err = repo.Replace(context.Background(), "trip:t1", []Event{{ID: "stale"}}, 0)
	assert.ErrorIs(t, err, ErrVersionConflict)

	doc, err := repo.Load(context.Background(), "trip:t1")
	require.NoError(t, err)
	assert.Equal(t, "a", doc.Events[0].ID)
}

func TestRepositoryImpl_ScopeKeysAreIsolated(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)

	_, err := repo.Replace(context.Background(), "user:1", []Event{{ID: "personal"}}, 0)
	require.NoError(t, err)
	_, err = repo.Replace(context.Background(), "trip:tripA", []Event{{ID: "shared"}}, 0)
	require.NoError(t, err)

	personal, err := repo.Load(context.Background(), "user:1")
	require.NoError(t, err)
	shared, err := repo.Load(context.Background(), "trip:tripA")
	require.NoError(t, err)

	assert.Equal(t, "personal", personal.Events[0].ID)
	assert.Equal(t, "shared", shared.Events[0].ID)
}

func TestRepositoryImpl_ReplaceEmptyCollection(t *testing.T) {
	db := test_utils.SetupTestDB(t)
	repo := NewRepository(db)

	_, err := repo.Replace(context.Background(), "user:1", nil, 0)
	require.NoError(t, err)

	doc, err := repo.Load(context.Background(), "user:1")
	require.NoError(t, err)
	assert.NotNil(t, doc.Events)
	assert.Empty(t, doc.Events)
}
