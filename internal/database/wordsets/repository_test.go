package wordsets

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
	dbPath := "./test_wordsets_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Language{},
		&entities.Word{},
		&entities.ExampleSentence{},
		&entities.Translation{},
		&entities.DailyWordSet{},
		&entities.WordSetItem{},
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

func createTestTranslations(t *testing.T, db *gorm.DB, count int) []uint {
	tr := entities.Language{Code: "tr", Name: "Turkish"}
	pt := entities.Language{Code: "pt", Name: "Portuguese"}
	require.NoError(t, db.FirstOrCreate(&tr, entities.Language{Code: "tr"}).Error)
	require.NoError(t, db.FirstOrCreate(&pt, entities.Language{Code: "pt"}).Error)

	var ids []uint
	for i := range count {
		source := entities.Word{Text: "kaynak" + string(rune('a'+i)), LanguageID: tr.ID}
		target := entities.Word{Text: "alvo" + string(rune('a'+i)), LanguageID: pt.ID}
		require.NoError(t, db.Create(&source).Error)
		require.NoError(t, db.Create(&target).Error)
		translation := entities.Translation{SourceWordID: source.ID, TargetWordID: target.ID, IsVerified: true}
		require.NoError(t, db.Create(&translation).Error)
		ids = append(ids, translation.ID)
	}
	return ids
}

func newTestSet(userID uint, date string) *entities.DailyWordSet {
	return &entities.DailyWordSet{
		UserID:           userID,
		Date:             date,
		SourceLanguageID: 1,
		TargetLanguageID: 2,
		Difficulty:       entities.DifficultyBeginner,
	}
}

func TestRepository_Create(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	translationIDs := createTestTranslations(t, db, 3)
	set := newTestSet(1, "2026-08-28")

	err := repo.Create(set, translationIDs)

	require.NoError(t, err)
	assert.NotZero(t, set.ID)

	stored, err := repo.GetByID(set.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 3)
	for i, item := range stored.Items {
		assert.Equal(t, i, item.SortOrder)
		assert.Equal(t, translationIDs[i], item.TranslationID)
	}
}

func TestRepository_Create_DuplicateDate(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	translationIDs := createTestTranslations(t, db, 2)

	err := repo.Create(newTestSet(1, "2026-08-28"), translationIDs)
	require.NoError(t, err)

	err = repo.Create(newTestSet(1, "2026-08-28"), translationIDs)
	assert.ErrorIs(t, err, ErrDuplicateSet)

	// The first set's items stay untouched
	var count int64
	db.Model(&entities.WordSetItem{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestRepository_Create_SameDateDifferentUsers(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	translationIDs := createTestTranslations(t, db, 1)

	require.NoError(t, repo.Create(newTestSet(1, "2026-08-28"), translationIDs))
	require.NoError(t, repo.Create(newTestSet(2, "2026-08-28"), translationIDs))
}

func TestRepository_ExistsFor(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	translationIDs := createTestTranslations(t, db, 1)
	require.NoError(t, repo.Create(newTestSet(1, "2026-08-28"), translationIDs))

	exists, err := repo.ExistsFor(1, "2026-08-28")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsFor(1, "2026-08-29")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_RecentTranslationIDs(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	translationIDs := createTestTranslations(t, db, 4)

	require.NoError(t, repo.Create(newTestSet(1, "2026-08-20"), translationIDs[:2]))
	require.NoError(t, repo.Create(newTestSet(1, "2026-08-27"), translationIDs[2:3]))
	// Another user's sets never count
	require.NoError(t, repo.Create(newTestSet(2, "2026-08-27"), translationIDs[3:]))

	ids, err := repo.RecentTranslationIDs(1, "2026-08-21")

	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, translationIDs[2], ids[0])
}

func TestRepository_GetForUserDate(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	translationIDs := createTestTranslations(t, db, 2)
	require.NoError(t, repo.Create(newTestSet(1, "2026-08-28"), translationIDs))

	set, err := repo.GetForUserDate(1, "2026-08-28")

	require.NoError(t, err)
	assert.Equal(t, "2026-08-28", set.Date)
	require.Len(t, set.Items, 2)
	assert.NotEmpty(t, set.Items[0].Translation.SourceWord.Text)
}

func TestRepository_GetForUserDate_NotFound(t *testing.T) {
	_, repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetForUserDate(1, "2026-08-28")

	assert.ErrorIs(t, err, ErrNotFound)
}
