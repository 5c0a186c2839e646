// Package words provides database operations for the dictionary: languages,
// words, example sentences and translations.
//
// The candidate query feeding daily word-set generation lives here; see
// CandidateTranslations for the eligibility rules.
package words

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/ozcano/wordpost/internal/entities"
)

var ErrLanguageNotFound = errors.New("language not found")

// Repository handles all dictionary database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new words repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Languages returns all known languages ordered by name.
func (r *Repository) Languages() ([]entities.Language, error) {
	var languages []entities.Language
	err := r.db.Order("name ASC").Find(&languages).Error
	return languages, err
}

// LanguageByCode looks up a language by its short code (e.g. "tr").
func (r *Repository) LanguageByCode(code string) (*entities.Language, error) {
	var lang entities.Language
	err := r.db.Where("code = ?", code).First(&lang).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLanguageNotFound
		}
		return nil, err
	}
	return &lang, nil
}

// FindByTextAndLanguage returns the word with the exact text in a language.
func (r *Repository) FindByTextAndLanguage(text string, languageID uint) (*entities.Word, error) {
	var word entities.Word
	err := r.db.Where("text = ? AND language_id = ?", text, languageID).First(&word).Error
	if err != nil {
		return nil, err
	}
	return &word, nil
}

// CreateWord inserts a new dictionary word.
func (r *Repository) CreateWord(word *entities.Word) error {
	return r.db.Create(word).Error
}

// AddExample attaches an example sentence to a word.
func (r *Repository) AddExample(wordID uint, sentence string) error {
	return r.db.Create(&entities.ExampleSentence{WordID: wordID, Sentence: sentence}).Error
}

// CreateTranslation inserts a directional translation pair and reports
// whether a row was created. Duplicate pairs are ignored; the
// (source, target) combination is unique.
func (r *Repository) CreateTranslation(sourceWordID, targetWordID uint, verified bool) (bool, error) {
	translation := entities.Translation{
		SourceWordID: sourceWordID,
		TargetWordID: targetWordID,
		IsVerified:   verified,
	}
	err := r.db.Create(&translation).Error
	if err != nil && isUniqueViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PracticeWords returns up to count random verified translations for the
// requested language pair and difficulty, words and examples resolved. Backs
// the anonymous browse endpoint.
func (r *Repository) PracticeWords(sourceLangID, targetLangID uint, difficulty entities.DifficultyLevel, count int) ([]entities.Translation, error) {
	var translations []entities.Translation
	err := r.db.Model(&entities.Translation{}).
		Joins("JOIN words sw ON sw.id = translations.source_word_id").
		Joins("JOIN words tw ON tw.id = translations.target_word_id").
		Where("sw.language_id = ? AND tw.language_id = ?", sourceLangID, targetLangID).
		Where("sw.difficulty = ?", difficulty).
		Where("translations.is_verified = ?", true).
		Order("RANDOM()").
		Limit(count).
		Preload("SourceWord.Examples").
		Preload("SourceWord.Language").
		Preload("TargetWord.Examples").
		Preload("TargetWord.Language").
		Find(&translations).Error
	return translations, err
}

// CandidateTranslations returns translations eligible for a user's daily set:
// verified, matching the language pair and source-word difficulty, not in
// excludeIDs (recently shown), and with source-word mastery below the mastered
// threshold (words the user has never reviewed are eligible). Results are
// ordered by ascending frequency rank (unranked words last) with a random
// tie-break, capped at limit.
func (r *Repository) CandidateTranslations(userID, sourceLangID, targetLangID uint, difficulty entities.DifficultyLevel, excludeIDs []uint, limit int) ([]entities.Translation, error) {
	query := r.db.Model(&entities.Translation{}).
		Joins("JOIN words sw ON sw.id = translations.source_word_id").
		Joins("JOIN words tw ON tw.id = translations.target_word_id").
		Joins("LEFT JOIN user_word_progress up ON up.word_id = translations.source_word_id AND up.user_id = ?", userID).
		Where("sw.language_id = ? AND tw.language_id = ?", sourceLangID, targetLangID).
		Where("sw.difficulty = ?", difficulty).
		Where("translations.is_verified = ?", true).
		Where("up.mastery_level IS NULL OR up.mastery_level < ?", entities.MasteryMax)

	if len(excludeIDs) > 0 {
		query = query.Where("translations.id NOT IN ?", excludeIDs)
	}

	var translations []entities.Translation
	err := query.
		Order("COALESCE(sw.frequency_rank, 1000000) ASC, RANDOM()").
		Limit(limit).
		Preload("SourceWord.Examples").
		Preload("SourceWord.Language").
		Preload("TargetWord.Examples").
		Preload("TargetWord.Language").
		Find(&translations).Error
	return translations, err
}

// isUniqueViolation detects duplicate-key errors across the supported drivers.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Driver errors that gorm does not translate
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
