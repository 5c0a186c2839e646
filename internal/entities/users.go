package entities

import (
	"time"

	"gorm.io/gorm"
)

// Mastery scale bounds. A word at MasteryMax is considered mastered and is
// excluded from daily word-set selection.
const (
	MasteryMin = 0
	MasteryMax = 4
)

// ClampMastery forces a mastery level into the [MasteryMin, MasteryMax] range.
func ClampMastery(level int) int {
	if level < MasteryMin {
		return MasteryMin
	}
	if level > MasteryMax {
		return MasteryMax
	}
	return level
}

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:255" json:"email"`
	Name         string         `gorm:"size:255" json:"name"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	IsVerified   bool           `gorm:"default:false" json:"is_verified"`
	Preference   *Preference    `gorm:"foreignKey:UserID" json:"preference,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// Preference holds a user's learning settings. Exactly one row per user.
type Preference struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	UserID            uint            `gorm:"uniqueIndex" json:"user_id"`
	SourceLanguageID  uint            `json:"source_language_id"`
	TargetLanguageID  uint            `json:"target_language_id"`
	SourceLanguage    Language        `gorm:"foreignKey:SourceLanguageID" json:"source_language,omitempty"`
	TargetLanguage    Language        `gorm:"foreignKey:TargetLanguageID" json:"target_language,omitempty"`
	Difficulty        DifficultyLevel `gorm:"size:20;default:'beginner'" json:"difficulty"`
	WordsPerDay       int             `gorm:"default:5" json:"words_per_day"`
	IsEmailSubscribed bool            `gorm:"default:false" json:"is_email_subscribed"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// WordProgress records how well a user knows one word. Upserted on every
// review, never deleted.
type WordProgress struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"uniqueIndex:idx_word_progress_user_word" json:"user_id"`
	WordID         uint      `gorm:"uniqueIndex:idx_word_progress_user_word" json:"word_id"`
	Word           Word      `gorm:"foreignKey:WordID" json:"word,omitempty"`
	MasteryLevel   int       `gorm:"default:0" json:"mastery_level"`
	LastReviewedAt time.Time `json:"last_reviewed_at"`
}

func (User) TableName() string {
	return "users"
}

func (Preference) TableName() string {
	return "user_preferences"
}

func (WordProgress) TableName() string {
	return "user_word_progress"
}
