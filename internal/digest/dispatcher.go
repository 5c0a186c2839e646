package digest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ozcano/wordpost/internal/database/emailqueue"
	"github.com/ozcano/wordpost/internal/database/users"
	"github.com/ozcano/wordpost/internal/database/wordsets"
	"github.com/ozcano/wordpost/internal/entities"
	"github.com/ozcano/wordpost/internal/mail"
)

// Dispatcher drains the email queue, rendering and sending one digest per
// claimed entry.
type Dispatcher struct {
	queue     *emailqueue.Repository
	users     *users.Repository
	wordSets  *wordsets.Repository
	renderer  *Renderer
	transport mail.Transport
	batchSize int
	sendDelay time.Duration
}

func NewDispatcher(
	queueRepo *emailqueue.Repository,
	usersRepo *users.Repository,
	wordSetsRepo *wordsets.Repository,
	renderer *Renderer,
	transport mail.Transport,
	batchSize int,
	sendDelay time.Duration,
) *Dispatcher {
	return &Dispatcher{
		queue:     queueRepo,
		users:     usersRepo,
		wordSets:  wordSetsRepo,
		renderer:  renderer,
		transport: transport,
		batchSize: batchSize,
		sendDelay: sendDelay,
	}
}

// CycleStats summarizes one dispatch cycle.
type CycleStats struct {
	Attempted int
	Sent      int
	Failed    int
}

// RunDispatchCycle claims a batch of pending entries and sends them
// sequentially, pacing sends to stay under provider rate limits. Per-entry
// failures consume a retry and the cycle continues; only a claim failure
// aborts the cycle.
func (d *Dispatcher) RunDispatchCycle(ctx context.Context) (CycleStats, error) {
	stats := CycleStats{}

	entries, err := d.queue.Claim(d.batchSize)
	if err != nil {
		return stats, fmt.Errorf("failed to claim queue entries: %w", err)
	}
	if len(entries) == 0 {
		return stats, nil
	}
	log.Printf("Dispatching %d queued digest emails", len(entries))

	for i, entry := range entries {
		stats.Attempted++
		delivered, err := d.sendEntry(ctx, entry)
		switch {
		case err == nil:
			stats.Sent++
		case delivered:
			// The email left the building; only the status write failed.
			// Count it as sent so operators don't re-trigger a duplicate.
			stats.Sent++
			log.Printf("Queue entry %d delivered but status update failed: %v", entry.ID, err)
		default:
			stats.Failed++
			log.Printf("Failed to send queue entry %d: %v", entry.ID, err)
		}

		if i < len(entries)-1 && d.sendDelay > 0 {
			select {
			case <-ctx.Done():
				d.releaseRemaining(entries[i+1:])
				return stats, ctx.Err()
			case <-time.After(d.sendDelay):
			}
		}
	}

	log.Printf("Dispatch cycle completed: %d sent, %d failed", stats.Sent, stats.Failed)
	return stats, nil
}

// sendEntry processes one claimed entry. The delivered flag reports whether
// the transport accepted the message, so a failed status write after a
// successful send is not mistaken for a failed send.
func (d *Dispatcher) sendEntry(ctx context.Context, entry entities.EmailQueueEntry) (delivered bool, err error) {
	user, err := d.users.GetByID(entry.UserID)
	if errors.Is(err, users.ErrNotFound) {
		reason := fmt.Sprintf("user %d not found", entry.UserID)
		if markErr := d.queue.MarkFailedPermanent(entry.ID, reason); markErr != nil {
			return false, markErr
		}
		return false, errors.New(reason)
	}
	if err != nil {
		return false, d.failEntry(entry.ID, err)
	}

	set, err := d.wordSets.GetByID(entry.DailyWordSetID)
	if errors.Is(err, wordsets.ErrNotFound) {
		reason := fmt.Sprintf("word set %d not found", entry.DailyWordSetID)
		if markErr := d.queue.MarkFailedPermanent(entry.ID, reason); markErr != nil {
			return false, markErr
		}
		return false, errors.New(reason)
	}
	if err != nil {
		return false, d.failEntry(entry.ID, err)
	}

	msg, err := d.renderer.Render(user, set)
	if err != nil {
		return false, d.failEntry(entry.ID, err)
	}

	if err := d.transport.Send(ctx, msg); err != nil {
		return false, d.failEntry(entry.ID, err)
	}

	return true, d.queue.MarkSent(entry.ID)
}

// releaseRemaining puts the unprocessed tail of a claimed batch back to
// pending so a cancelled cycle never strands entries at in_progress.
func (d *Dispatcher) releaseRemaining(entries []entities.EmailQueueEntry) {
	ids := make([]uint, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ID
	}
	if err := d.queue.Release(ids); err != nil {
		log.Printf("Failed to release %d unprocessed queue entries: %v", len(ids), err)
		return
	}
	log.Printf("Released %d unprocessed queue entries back to pending", len(ids))
}

func (d *Dispatcher) failEntry(id uint, cause error) error {
	if markErr := d.queue.MarkFailed(id, cause.Error()); markErr != nil {
		return fmt.Errorf("failed to record delivery failure: %w (original: %v)", markErr, cause)
	}
	return cause
}
