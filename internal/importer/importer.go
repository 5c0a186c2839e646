// Package importer loads dictionary entries from JSON seed files into the
// words, example sentences and translations tables.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/ozcano/wordpost/internal/database/words"
	"github.com/ozcano/wordpost/internal/entities"
)

// Entry is one dictionary record in the seed file: the same word in several
// languages, keyed by language code.
type Entry struct {
	Words         map[string]WordInput     `json:"words"`
	Difficulty    entities.DifficultyLevel `json:"difficulty"`
	FrequencyRank *int                     `json:"frequency_rank,omitempty"`
}

// WordInput is the per-language payload of an Entry.
type WordInput struct {
	Word    string `json:"word"`
	Example string `json:"example,omitempty"`
}

// Stats summarizes one import run.
type Stats struct {
	Entries      int `json:"entries"`
	Words        int `json:"words_created"`
	Translations int `json:"translations_created"`
	Skipped      int `json:"skipped"`
}

// Importer writes dictionary entries through the words repository.
type Importer struct {
	words *words.Repository
}

func NewImporter(wordsRepo *words.Repository) *Importer {
	return &Importer{words: wordsRepo}
}

// ImportFile reads a JSON seed file and imports every entry.
func (i *Importer) ImportFile(path string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return i.Import(f)
}

// Import reads a JSON array of entries and imports them. Malformed entries
// are skipped and counted, not fatal.
func (i *Importer) Import(r io.Reader) (Stats, error) {
	var entries []Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return Stats{}, fmt.Errorf("failed to decode seed file: %w", err)
	}

	stats := Stats{}
	for _, entry := range entries {
		entryStats, err := i.importEntry(entry)
		if err != nil {
			log.Printf("Skipping dictionary entry: %v", err)
			stats.Skipped++
			continue
		}
		stats.Entries++
		stats.Words += entryStats.Words
		stats.Translations += entryStats.Translations
	}

	log.Printf("Dictionary import: %d entries, %d new words, %d new translations, %d skipped",
		stats.Entries, stats.Words, stats.Translations, stats.Skipped)
	return stats, nil
}

func (i *Importer) importEntry(entry Entry) (Stats, error) {
	if len(entry.Words) < 2 {
		return Stats{}, errors.New("entry needs words in at least two languages")
	}
	difficulty := entry.Difficulty
	if difficulty == "" {
		difficulty = entities.DifficultyBeginner
	}
	if !entities.ValidDifficulty(difficulty) {
		return Stats{}, fmt.Errorf("invalid difficulty %q", entry.Difficulty)
	}

	stats := Stats{}
	ids := make(map[string]uint, len(entry.Words))

	for code, input := range entry.Words {
		if input.Word == "" {
			return Stats{}, fmt.Errorf("empty word for language %q", code)
		}
		lang, err := i.words.LanguageByCode(code)
		if err != nil {
			return Stats{}, fmt.Errorf("language %q: %w", code, err)
		}

		word, created, err := i.findOrCreateWord(input, lang.ID, difficulty, entry.FrequencyRank)
		if err != nil {
			return Stats{}, err
		}
		if created {
			stats.Words++
		}
		ids[code] = word.ID
	}

	// Link every ordered pair; the reverse direction is its own row.
	for sourceCode, sourceID := range ids {
		for targetCode, targetID := range ids {
			if sourceCode == targetCode {
				continue
			}
			created, err := i.words.CreateTranslation(sourceID, targetID, true)
			if err != nil {
				return Stats{}, fmt.Errorf("translation %s->%s: %w", sourceCode, targetCode, err)
			}
			if created {
				stats.Translations++
			}
		}
	}

	return stats, nil
}

func (i *Importer) findOrCreateWord(input WordInput, langID uint, difficulty entities.DifficultyLevel, rank *int) (*entities.Word, bool, error) {
	existing, err := i.words.FindByTextAndLanguage(input.Word, langID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("lookup word %q: %w", input.Word, err)
	}

	word := &entities.Word{
		Text:          input.Word,
		LanguageID:    langID,
		Difficulty:    difficulty,
		FrequencyRank: rank,
	}
	if err := i.words.CreateWord(word); err != nil {
		return nil, false, fmt.Errorf("create word %q: %w", input.Word, err)
	}
	if input.Example != "" {
		if err := i.words.AddExample(word.ID, input.Example); err != nil {
			return nil, false, fmt.Errorf("add example for %q: %w", input.Word, err)
		}
	}
	return word, true, nil
}
