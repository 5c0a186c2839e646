// Package wordsets provides database operations for daily word sets, the
// per-user snapshots of each day's selected translations.
package wordsets

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ozcano/wordpost/internal/entities"
)

var (
	ErrNotFound     = errors.New("word set not found")
	ErrDuplicateSet = errors.New("word set already exists for this user and date")
)

// Repository handles all daily-word-set database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new word-set repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a word set together with its ordered items in one
// transaction. The (user, date) pair is unique; if a set already exists the
// insert is a no-op and ErrDuplicateSet is returned, so concurrent generation
// runs cannot produce two sets for the same day.
func (r *Repository) Create(set *entities.DailyWordSet, translationIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoNothing: true,
		}).Create(set)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrDuplicateSet
		}
		for i, translationID := range translationIDs {
			item := entities.WordSetItem{
				DailyWordSetID: set.ID,
				TranslationID:  translationID,
				SortOrder:      i,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ExistsFor reports whether the user already has a set for the given date.
func (r *Repository) ExistsFor(userID uint, date string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.DailyWordSet{}).
		Where("user_id = ? AND date = ?", userID, date).
		Count(&count).Error
	return count > 0, err
}

// RecentTranslationIDs returns the ids of every translation that appeared in
// the user's sets on or after sinceDate. Dates are ISO formatted so string
// comparison orders correctly.
func (r *Repository) RecentTranslationIDs(userID uint, sinceDate string) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entities.WordSetItem{}).
		Joins("JOIN daily_word_sets ON daily_word_sets.id = word_set_items.daily_word_set_id").
		Where("daily_word_sets.user_id = ? AND daily_word_sets.date >= ?", userID, sinceDate).
		Pluck("word_set_items.translation_id", &ids).Error
	return ids, err
}

// GetByID retrieves a word set with its items in selection order and all word
// data resolved.
func (r *Repository) GetByID(id uint) (*entities.DailyWordSet, error) {
	var set entities.DailyWordSet
	err := r.preloaded().First(&set, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &set, nil
}

// GetForUserDate retrieves the user's set for one date, fully resolved.
func (r *Repository) GetForUserDate(userID uint, date string) (*entities.DailyWordSet, error) {
	var set entities.DailyWordSet
	err := r.preloaded().
		Where("user_id = ? AND date = ?", userID, date).
		First(&set).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &set, nil
}

func (r *Repository) preloaded() *gorm.DB {
	return r.db.
		Preload("SourceLanguage").
		Preload("TargetLanguage").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Items.Translation.SourceWord.Examples").
		Preload("Items.Translation.SourceWord.Language").
		Preload("Items.Translation.TargetWord.Examples").
		Preload("Items.Translation.TargetWord.Language")
}
