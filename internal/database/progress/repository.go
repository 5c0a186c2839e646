// Package progress provides database operations for per-user word mastery
// tracking.
package progress

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ozcano/wordpost/internal/entities"
)

// Repository handles all word-progress database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new progress repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert records a review result. Creates the progress row on first review,
// updates it on every subsequent one. The mastery level is clamped to the
// scale bounds before writing.
func (r *Repository) Upsert(userID, wordID uint, masteryLevel int) error {
	record := entities.WordProgress{
		UserID:         userID,
		WordID:         wordID,
		MasteryLevel:   entities.ClampMastery(masteryLevel),
		LastReviewedAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "word_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"mastery_level", "last_reviewed_at"}),
	}).Create(&record).Error
}

// MasteryLevel returns the user's mastery of a word. The second return value
// is false when the word has never been reviewed.
func (r *Repository) MasteryLevel(userID, wordID uint) (int, bool, error) {
	var record entities.WordProgress
	err := r.db.Where("user_id = ? AND word_id = ?", userID, wordID).First(&record).Error
	if err == gorm.ErrRecordNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return record.MasteryLevel, true, nil
}

// MasteryCount is one bucket of the per-level breakdown.
type MasteryCount struct {
	MasteryLevel int   `json:"mastery_level"`
	Count        int64 `json:"count"`
}

// Stats returns the total reviewed-word count and the per-level breakdown.
func (r *Repository) Stats(userID uint) (total int64, breakdown []MasteryCount, err error) {
	err = r.db.Model(&entities.WordProgress{}).Where("user_id = ?", userID).Count(&total).Error
	if err != nil {
		return 0, nil, err
	}
	err = r.db.Model(&entities.WordProgress{}).
		Select("mastery_level, COUNT(*) as count").
		Where("user_id = ?", userID).
		Group("mastery_level").
		Order("mastery_level ASC").
		Scan(&breakdown).Error
	return total, breakdown, err
}

// RecentActivity returns the user's latest reviews, newest first.
func (r *Repository) RecentActivity(userID uint, limit int) ([]entities.WordProgress, error) {
	var records []entities.WordProgress
	err := r.db.Where("user_id = ?", userID).
		Order("last_reviewed_at DESC").
		Limit(limit).
		Preload("Word.Language").
		Find(&records).Error
	return records, err
}

// WordsByMastery returns all reviewed words at one mastery level, most
// recently reviewed first.
func (r *Repository) WordsByMastery(userID uint, masteryLevel int) ([]entities.WordProgress, error) {
	var records []entities.WordProgress
	err := r.db.Where("user_id = ? AND mastery_level = ?", userID, masteryLevel).
		Order("last_reviewed_at DESC").
		Preload("Word.Examples").
		Preload("Word.Language").
		Find(&records).Error
	return records, err
}

// ReviewTimes returns the timestamps of all reviews since a cutoff, newest
// first. Streak computation happens in the handler so the query stays
// portable across drivers.
func (r *Repository) ReviewTimes(userID uint, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.Model(&entities.WordProgress{}).
		Where("user_id = ? AND last_reviewed_at >= ?", userID, since).
		Order("last_reviewed_at DESC").
		Pluck("last_reviewed_at", &times).Error
	return times, err
}
