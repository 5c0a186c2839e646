package entities

import (
	"time"
)

type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
)

// ValidDifficulty reports whether level is one of the known difficulty levels.
func ValidDifficulty(level DifficultyLevel) bool {
	switch level {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

type Language struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;size:10" json:"code"` // e.g. "tr", "pt", "en"
	Name      string    `gorm:"size:50" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type Word struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Text          string          `gorm:"index;size:255" json:"text"`
	LanguageID    uint            `gorm:"index" json:"language_id"`
	Language      Language        `gorm:"foreignKey:LanguageID" json:"language,omitempty"`
	Difficulty    DifficultyLevel `gorm:"size:20;index;default:'beginner'" json:"difficulty"`
	FrequencyRank *int            `json:"frequency_rank,omitempty"` // lower = more common, nil = unranked
	Examples      []ExampleSentence `gorm:"foreignKey:WordID" json:"examples,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ExampleSentence struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	WordID    uint      `gorm:"index" json:"word_id"`
	Sentence  string    `gorm:"type:text" json:"sentence"`
	CreatedAt time.Time `json:"created_at"`
}

// Translation is a directional pair; the reverse direction is a separate row.
type Translation struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SourceWordID uint      `gorm:"uniqueIndex:idx_translations_pair" json:"source_word_id"`
	TargetWordID uint      `gorm:"uniqueIndex:idx_translations_pair" json:"target_word_id"`
	SourceWord   Word      `gorm:"foreignKey:SourceWordID" json:"source_word,omitempty"`
	TargetWord   Word      `gorm:"foreignKey:TargetWordID" json:"target_word,omitempty"`
	IsVerified   bool      `gorm:"default:false;index" json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Language) TableName() string {
	return "languages"
}

func (Word) TableName() string {
	return "words"
}

func (ExampleSentence) TableName() string {
	return "example_sentences"
}

func (Translation) TableName() string {
	return "translations"
}
