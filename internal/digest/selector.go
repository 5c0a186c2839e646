// Package digest implements the daily word-set pipeline: selecting each
// subscriber's words for the day, queueing the digest email and dispatching
// the queue.
package digest

import (
	"fmt"
	"log"
	"time"

	"github.com/ozcano/wordpost/internal/database/emailqueue"
	"github.com/ozcano/wordpost/internal/database/users"
	"github.com/ozcano/wordpost/internal/database/words"
	"github.com/ozcano/wordpost/internal/database/wordsets"
	"github.com/ozcano/wordpost/internal/entities"
)

// RecentWindowDays is how far back a translation counts as recently shown and
// is excluded from selection.
const RecentWindowDays = 7

// Selector builds daily word sets for subscribed users.
type Selector struct {
	users    *users.Repository
	words    *words.Repository
	wordSets *wordsets.Repository
	queue    *emailqueue.Repository
}

func NewSelector(
	usersRepo *users.Repository,
	wordsRepo *words.Repository,
	wordSetsRepo *wordsets.Repository,
	queueRepo *emailqueue.Repository,
) *Selector {
	return &Selector{
		users:    usersRepo,
		words:    wordsRepo,
		wordSets: wordSetsRepo,
		queue:    queueRepo,
	}
}

// GenerationResult summarizes one sweep over the subscriber population.
type GenerationResult struct {
	Users   int
	Created int
	Skipped int
	Errors  int
}

// RunDailyGeneration builds today's word set for every active subscribed
// user. A failure for one user never aborts the sweep.
func (s *Selector) RunDailyGeneration(now time.Time) GenerationResult {
	result := GenerationResult{}

	subscribers, err := s.users.FindActiveSubscribed()
	if err != nil {
		log.Printf("Daily generation failed to list subscribers: %v", err)
		result.Errors++
		return result
	}
	result.Users = len(subscribers)
	log.Printf("Daily generation sweeping %d subscribed users", len(subscribers))

	for _, user := range subscribers {
		created, err := s.GenerateForUser(&user, now)
		switch {
		case err != nil:
			log.Printf("Failed to generate word set for user %d: %v", user.ID, err)
			result.Errors++
		case created:
			result.Created++
		default:
			result.Skipped++
		}
	}

	log.Printf("Daily generation completed: %d created, %d skipped, %d errors",
		result.Created, result.Skipped, result.Errors)
	return result
}

// GenerateForUser builds the user's word set for the given day and enqueues
// its digest email. Returns false without error when the user is skipped:
// a set already exists for the date, or no eligible words remain.
func (s *Selector) GenerateForUser(user *entities.User, now time.Time) (bool, error) {
	if user.Preference == nil {
		return false, fmt.Errorf("user %d has no preference record", user.ID)
	}
	pref := user.Preference
	today := now.Format(entities.WordSetDateLayout)

	exists, err := s.wordSets.ExistsFor(user.ID, today)
	if err != nil {
		return false, fmt.Errorf("failed to check existing word set: %w", err)
	}
	if exists {
		return false, nil
	}

	since := now.AddDate(0, 0, -RecentWindowDays).Format(entities.WordSetDateLayout)
	recentIDs, err := s.wordSets.RecentTranslationIDs(user.ID, since)
	if err != nil {
		return false, fmt.Errorf("failed to load recent translations: %w", err)
	}

	candidates, err := s.words.CandidateTranslations(
		user.ID,
		pref.SourceLanguageID,
		pref.TargetLanguageID,
		pref.Difficulty,
		recentIDs,
		pref.WordsPerDay,
	)
	if err != nil {
		return false, fmt.Errorf("failed to select candidate words: %w", err)
	}
	if len(candidates) == 0 {
		log.Printf("No eligible words for user %d, skipping", user.ID)
		return false, nil
	}

	set := &entities.DailyWordSet{
		UserID:           user.ID,
		Date:             today,
		SourceLanguageID: pref.SourceLanguageID,
		TargetLanguageID: pref.TargetLanguageID,
		Difficulty:       pref.Difficulty,
	}
	translationIDs := make([]uint, len(candidates))
	for i, candidate := range candidates {
		translationIDs[i] = candidate.ID
	}

	err = s.wordSets.Create(set, translationIDs)
	if err == wordsets.ErrDuplicateSet {
		// A concurrent run won the insert; nothing left to do.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create word set: %w", err)
	}

	if err := s.queue.Enqueue(user.ID, set.ID); err != nil {
		return false, fmt.Errorf("failed to enqueue digest email: %w", err)
	}

	log.Printf("Generated word set %d with %d words for user %d", set.ID, len(translationIDs), user.ID)
	return true, nil
}
