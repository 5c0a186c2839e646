package entities

import (
	"time"
)

type EmailStatus string

const (
	EmailStatusPending    EmailStatus = "pending"
	EmailStatusInProgress EmailStatus = "in_progress"
	EmailStatusSent       EmailStatus = "sent"
	EmailStatusFailed     EmailStatus = "failed"
)

// WordSetDateLayout is the calendar-date format used for DailyWordSet.Date.
const WordSetDateLayout = "2006-01-02"

// DailyWordSet is the ordered collection of translations assigned to one user
// for one calendar date. At most one exists per (user, date); immutable after
// creation.
type DailyWordSet struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	UserID           uint            `gorm:"uniqueIndex:idx_word_sets_user_date" json:"user_id"`
	Date             string          `gorm:"size:10;uniqueIndex:idx_word_sets_user_date" json:"date"`
	SourceLanguageID uint            `json:"source_language_id"`
	TargetLanguageID uint            `json:"target_language_id"`
	SourceLanguage   Language        `gorm:"foreignKey:SourceLanguageID" json:"source_language,omitempty"`
	TargetLanguage   Language        `gorm:"foreignKey:TargetLanguageID" json:"target_language,omitempty"`
	Difficulty       DifficultyLevel `gorm:"size:20" json:"difficulty"`
	Items            []WordSetItem   `gorm:"foreignKey:DailyWordSetID" json:"items,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

type WordSetItem struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	DailyWordSetID uint        `gorm:"index" json:"daily_word_set_id"`
	TranslationID  uint        `gorm:"index" json:"translation_id"`
	Translation    Translation `gorm:"foreignKey:TranslationID" json:"translation,omitempty"`
	SortOrder      int         `json:"sort_order"`
}

// EmailQueueEntry tracks delivery of one daily word set. Entries are never
// deleted; they form the delivery audit trail.
type EmailQueueEntry struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	UserID         uint         `gorm:"index" json:"user_id"`
	DailyWordSetID uint         `gorm:"index" json:"daily_word_set_id"`
	Status         EmailStatus  `gorm:"size:20;default:'pending';index" json:"status"`
	RetryCount     int          `gorm:"default:0" json:"retry_count"`
	ErrorMessage   string       `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	SentAt         *time.Time   `json:"sent_at,omitempty"`
	DailyWordSet   DailyWordSet `gorm:"foreignKey:DailyWordSetID" json:"-"`
	User           User         `gorm:"foreignKey:UserID" json:"-"`
}

func (DailyWordSet) TableName() string {
	return "daily_word_sets"
}

func (WordSetItem) TableName() string {
	return "word_set_items"
}

func (EmailQueueEntry) TableName() string {
	return "email_queue"
}
