package emailqueue

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ozcano/wordpost/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_emailqueue_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.DailyWordSet{},
		&entities.WordSetItem{},
		&entities.EmailQueueEntry{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func TestRepository_Enqueue(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.Enqueue(1, 10)

	require.NoError(t, err)

	var entry entities.EmailQueueEntry
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, entities.EmailStatusPending, entry.Status)
	assert.Zero(t, entry.RetryCount)
	assert.Nil(t, entry.SentAt)
}

func TestRepository_Claim(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Enqueue(1, 10))
	require.NoError(t, repo.Enqueue(2, 11))

	claimed, err := repo.Claim(50)

	require.NoError(t, err)
	require.Len(t, claimed, 2)
	for _, entry := range claimed {
		assert.Equal(t, entities.EmailStatusInProgress, entry.Status)
	}

	// Already-claimed entries are not claimed again
	again, err := repo.Claim(50)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestRepository_ClaimRows_SkipsRowsTakenByAnotherClaimer(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Enqueue(1, 10))
	require.NoError(t, repo.Enqueue(2, 11))

	var ids []uint
	require.NoError(t, db.Model(&entities.EmailQueueEntry{}).
		Order("id ASC").
		Pluck("id", &ids).Error)
	require.Len(t, ids, 2)

	// Another dispatch cycle flipped the first candidate between our select
	// and our update
	require.NoError(t, db.Model(&entities.EmailQueueEntry{}).
		Where("id = ?", ids[0]).
		Update("status", entities.EmailStatusInProgress).Error)

	flipped, err := claimRows(db, ids)

	require.NoError(t, err)
	assert.Equal(t, []uint{ids[1]}, flipped)
}

func TestRepository_Release(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Enqueue(1, 10))
	require.NoError(t, repo.Enqueue(2, 11))
	claimed, err := repo.Claim(50)
	require.NoError(t, err)
	require.Len(t, claimed, 2)
	require.NoError(t, repo.MarkSent(claimed[0].ID))

	err = repo.Release([]uint{claimed[0].ID, claimed[1].ID})

	require.NoError(t, err)

	// Sent entries stay sent; only the in_progress one goes back
	var sent, released entities.EmailQueueEntry
	require.NoError(t, db.First(&sent, claimed[0].ID).Error)
	require.NoError(t, db.First(&released, claimed[1].ID).Error)
	assert.Equal(t, entities.EmailStatusSent, sent.Status)
	assert.Equal(t, entities.EmailStatusPending, released.Status)
	assert.Zero(t, released.RetryCount)

	// The released entry is claimable again
	again, err := repo.Claim(50)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, claimed[1].ID, again[0].ID)
}

func TestRepository_Claim_RespectsLimit(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	for i := range 5 {
		require.NoError(t, repo.Enqueue(uint(i+1), uint(i+10)))
	}

	claimed, err := repo.Claim(3)

	require.NoError(t, err)
	assert.Len(t, claimed, 3)
}

func TestRepository_Claim_SkipsRetryCapped(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Enqueue(1, 10))
	err := db.Model(&entities.EmailQueueEntry{}).
		Where("user_id = ?", 1).
		Update("retry_count", MaxRetries).Error
	require.NoError(t, err)

	claimed, err := repo.Claim(50)

	require.NoError(t, err)
	assert.Empty(t, claimed)
}

func TestRepository_MarkSent(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Enqueue(1, 10))
	claimed, err := repo.Claim(1)
	require.NoError(t, err)
	require.Len(t, claimed, 1)

	err = repo.MarkSent(claimed[0].ID)

	require.NoError(t, err)

	var entry entities.EmailQueueEntry
	require.NoError(t, db.First(&entry, claimed[0].ID).Error)
	assert.Equal(t, entities.EmailStatusSent, entry.Status)
	assert.NotNil(t, entry.SentAt)
}

func TestRepository_MarkFailed_RequeuesUntilCap(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Enqueue(1, 10))
	claimed, _ := repo.Claim(1)
	require.Len(t, claimed, 1)
	id := claimed[0].ID

	err := repo.MarkFailed(id, "smtp timeout")
	require.NoError(t, err)

	var entry entities.EmailQueueEntry
	require.NoError(t, db.First(&entry, id).Error)
	assert.Equal(t, entities.EmailStatusPending, entry.Status)
	assert.Equal(t, 1, entry.RetryCount)
	assert.Equal(t, "smtp timeout", entry.ErrorMessage)
}

func TestRepository_MarkFailed_PermanentAtCap(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Enqueue(1, 10))

	var id uint
	for i := 0; i < MaxRetries; i++ {
		claimed, err := repo.Claim(1)
		require.NoError(t, err)
		require.Len(t, claimed, 1, "attempt %d should be claimable", i+1)
		id = claimed[0].ID
		require.NoError(t, repo.MarkFailed(id, "smtp timeout"))
	}

	var entry entities.EmailQueueEntry
	require.NoError(t, db.First(&entry, id).Error)
	assert.Equal(t, entities.EmailStatusFailed, entry.Status)
	assert.Equal(t, MaxRetries, entry.RetryCount)

	claimed, err := repo.Claim(1)
	require.NoError(t, err)
	assert.Empty(t, claimed)
}

func TestRepository_MarkFailedPermanent(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Enqueue(1, 10))
	claimed, _ := repo.Claim(1)
	require.Len(t, claimed, 1)

	err := repo.MarkFailedPermanent(claimed[0].ID, "word set deleted")

	require.NoError(t, err)

	var entry entities.EmailQueueEntry
	require.NoError(t, db.First(&entry, claimed[0].ID).Error)
	assert.Equal(t, entities.EmailStatusFailed, entry.Status)
	assert.Zero(t, entry.RetryCount)
	assert.Equal(t, "word set deleted", entry.ErrorMessage)
}

func TestRepository_CountByStatus(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.Enqueue(1, 10))
	require.NoError(t, repo.Enqueue(2, 11))
	claimed, _ := repo.Claim(1)
	require.Len(t, claimed, 1)
	require.NoError(t, repo.MarkSent(claimed[0].ID))

	counts, err := repo.CountByStatus()

	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[entities.EmailStatusPending])
	assert.Equal(t, int64(1), counts[entities.EmailStatusSent])
}
