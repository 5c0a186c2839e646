package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ozcano/wordpost/internal/database/words"
	"github.com/ozcano/wordpost/internal/entities"
)

const (
	defaultPracticeCount = 5
	maxPracticeCount     = 50
)

// WordsController serves the anonymous dictionary browse endpoints.
type WordsController struct {
	words *words.Repository
}

func NewWordsController(wordsRepo *words.Repository) *WordsController {
	return &WordsController{words: wordsRepo}
}

// PracticeWords returns random verified translations for a language pair.
// Query parameters: source, target (language codes), level, count.
func (w *WordsController) PracticeWords(c *gin.Context) {
	sourceCode := c.DefaultQuery("source", "tr")
	targetCode := c.DefaultQuery("target", "pt")
	level := entities.DifficultyLevel(c.DefaultQuery("level", string(entities.DifficultyBeginner)))

	if !entities.ValidDifficulty(level) {
		respondBadRequest(c, "invalid difficulty level")
		return
	}

	count, err := strconv.Atoi(c.DefaultQuery("count", strconv.Itoa(defaultPracticeCount)))
	if err != nil || count < 1 {
		respondBadRequest(c, "invalid count")
		return
	}
	if count > maxPracticeCount {
		count = maxPracticeCount
	}

	source, err := w.words.LanguageByCode(sourceCode)
	if errors.Is(err, words.ErrLanguageNotFound) {
		respondBadRequest(c, "unknown source language")
		return
	}
	if err != nil {
		respondInternalError(c, err, "lookup source language")
		return
	}
	target, err := w.words.LanguageByCode(targetCode)
	if errors.Is(err, words.ErrLanguageNotFound) {
		respondBadRequest(c, "unknown target language")
		return
	}
	if err != nil {
		respondInternalError(c, err, "lookup target language")
		return
	}

	translations, err := w.words.PracticeWords(source.ID, target.ID, level, count)
	if err != nil {
		respondInternalError(c, err, "practice words")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"source": source.Code,
		"target": target.Code,
		"level":  level,
		"words":  translations,
	})
}

func (w *WordsController) Languages(c *gin.Context) {
	languages, err := w.words.Languages()
	if err != nil {
		respondInternalError(c, err, "list languages")
		return
	}
	c.JSON(http.StatusOK, gin.H{"languages": languages})
}

func (w *WordsController) DifficultyLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"levels": []entities.DifficultyLevel{
			entities.DifficultyBeginner,
			entities.DifficultyIntermediate,
			entities.DifficultyAdvanced,
		},
	})
}
