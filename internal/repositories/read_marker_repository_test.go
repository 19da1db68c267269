package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kanjinagahisa/carebridge-hub-sub000/internal/models"
)

// setupTestDB opens an in-memory SQLite database standing in for PostgreSQL.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.ReadMarker{},
		&models.PushSubscription{},
	))
	return db
}

func TestCreateMarkersSkipsDuplicates(t *testing.T) {
	repo := NewPostgresReadMarkerRepository(setupTestDB(t))
	now := time.Now()

	inserted, err := repo.CreateMarkers([]models.ReadMarker{
		{PostID: "p1", UserID: 1, ReadAt: now},
		{PostID: "p2", UserID: 1, ReadAt: now},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, inserted)

	// Overlapping batch: only the new row lands
	inserted, err = repo.CreateMarkers([]models.ReadMarker{
		{PostID: "p2", UserID: 1, ReadAt: now},
		{PostID: "p3", UserID: 1, ReadAt: now},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, inserted)

	count, err := repo.CountMarked(1, []string{"p1", "p2", "p3"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestMarkersAreScopedPerUser(t *testing.T) {
	repo := NewPostgresReadMarkerRepository(setupTestDB(t))
	now := time.Now()

	_, err := repo.CreateMarkers([]models.ReadMarker{
		{PostID: "p1", UserID: 1, ReadAt: now},
		{PostID: "p1", UserID: 2, ReadAt: now},
		{PostID: "p2", UserID: 2, ReadAt: now},
	})
	require.NoError(t, err)

	marked, err := repo.GetMarkedPostIDs(1, []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"p1": true}, marked)

	byPost, err := repo.GetMarkersByPostIDs([]string{"p1", "p2"})
	require.NoError(t, err)
	assert.Len(t, byPost["p1"], 2)
	assert.Len(t, byPost["p2"], 1)

	count, err := repo.CountMarked(2, []string{"p1", "p2"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestCreateMarkersEmptyBatch(t *testing.T) {
	repo := NewPostgresReadMarkerRepository(setupTestDB(t))
	inserted, err := repo.CreateMarkers(nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}
