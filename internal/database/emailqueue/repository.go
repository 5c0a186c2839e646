// Package emailqueue provides database operations for the digest delivery
// queue.
package emailqueue

import (
	"time"

	"gorm.io/gorm"

	"github.com/ozcano/wordpost/internal/entities"
)

// MaxRetries is the number of delivery attempts before an entry is marked
// failed for good.
const MaxRetries = 3

// Repository handles all email-queue database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new email-queue repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Enqueue adds a pending delivery entry for a word set.
func (r *Repository) Enqueue(userID, wordSetID uint) error {
	entry := entities.EmailQueueEntry{
		UserID:         userID,
		DailyWordSetID: wordSetID,
		Status:         entities.EmailStatusPending,
	}
	return r.db.Create(&entry).Error
}

// Claim atomically moves up to limit pending entries to in_progress and
// returns them, oldest first. Entries at the retry cap are never claimed.
// Only rows whose status flip took effect in this transaction are returned,
// so two overlapping dispatch cycles never pick up the same entry, even on
// drivers where a concurrent claimer can flip a candidate between the select
// and the update.
func (r *Repository) Claim(limit int) ([]entities.EmailQueueEntry, error) {
	var claimed []entities.EmailQueueEntry
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		err := tx.Model(&entities.EmailQueueEntry{}).
			Where("status = ? AND retry_count < ?", entities.EmailStatusPending, MaxRetries).
			Order("created_at ASC").
			Limit(limit).
			Pluck("id", &ids).Error
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		flipped, err := claimRows(tx, ids)
		if err != nil {
			return err
		}
		if len(flipped) == 0 {
			return nil
		}
		return tx.Where("id IN ?", flipped).
			Order("created_at ASC").
			Find(&claimed).Error
	})
	return claimed, err
}

// claimRows flips candidates pending -> in_progress one row at a time and
// keeps only the ids whose update changed a row. Under read committed a
// candidate may already belong to another claimer by the time we update it;
// its RowsAffected is then 0 and it stays out of this batch.
func claimRows(tx *gorm.DB, ids []uint) ([]uint, error) {
	flipped := make([]uint, 0, len(ids))
	for _, id := range ids {
		res := tx.Model(&entities.EmailQueueEntry{}).
			Where("id = ? AND status = ?", id, entities.EmailStatusPending).
			Update("status", entities.EmailStatusInProgress)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			flipped = append(flipped, id)
		}
	}
	return flipped, nil
}

// Release puts claimed entries back to pending without consuming a retry.
// Used when a dispatch cycle exits before working through its whole batch.
func (r *Repository) Release(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&entities.EmailQueueEntry{}).
		Where("id IN ? AND status = ?", ids, entities.EmailStatusInProgress).
		Update("status", entities.EmailStatusPending).Error
}

// MarkSent records a successful delivery.
func (r *Repository) MarkSent(id uint) error {
	now := time.Now()
	return r.db.Model(&entities.EmailQueueEntry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":  entities.EmailStatusSent,
			"sent_at": &now,
		}).Error
}

// MarkFailed records a failed attempt. The entry goes back to pending for
// another try until it reaches the retry cap, at which point it is failed
// permanently.
func (r *Repository) MarkFailed(id uint, reason string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var entry entities.EmailQueueEntry
		if err := tx.First(&entry, id).Error; err != nil {
			return err
		}
		entry.RetryCount++
		status := entities.EmailStatusPending
		if entry.RetryCount >= MaxRetries {
			status = entities.EmailStatusFailed
		}
		return tx.Model(&entities.EmailQueueEntry{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status":        status,
				"retry_count":   entry.RetryCount,
				"error_message": reason,
			}).Error
	})
}

// MarkFailedPermanent fails an entry without consuming a retry. Used when the
// failure cannot heal, e.g. the referenced word set or user no longer exists.
func (r *Repository) MarkFailedPermanent(id uint, reason string) error {
	return r.db.Model(&entities.EmailQueueEntry{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        entities.EmailStatusFailed,
			"error_message": reason,
		}).Error
}

// CountByStatus returns the number of entries per queue status.
func (r *Repository) CountByStatus() (map[entities.EmailStatus]int64, error) {
	type row struct {
		Status entities.EmailStatus
		Count  int64
	}
	var rows []row
	err := r.db.Model(&entities.EmailQueueEntry{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[entities.EmailStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// EntriesForUser returns the user's queue history, newest first.
func (r *Repository) EntriesForUser(userID uint, limit int) ([]entities.EmailQueueEntry, error) {
	var entries []entities.EmailQueueEntry
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
