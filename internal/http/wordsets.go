package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ozcano/wordpost/internal/database/wordsets"
	"github.com/ozcano/wordpost/internal/entities"
)

// WordSetsController serves the daily word-set read endpoints.
type WordSetsController struct {
	wordSets *wordsets.Repository
}

func NewWordSetsController(wordSetsRepo *wordsets.Repository) *WordSetsController {
	return &WordSetsController{wordSets: wordSetsRepo}
}

// Today returns the caller's word set for the current date, if one has been
// generated.
func (w *WordSetsController) Today(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	today := time.Now().Format(entities.WordSetDateLayout)
	set, err := w.wordSets.GetForUserDate(userID, today)
	if errors.Is(err, wordsets.ErrNotFound) {
		respondNotFound(c, "word set for today")
		return
	}
	if err != nil {
		respondInternalError(c, err, "today's word set")
		return
	}

	c.JSON(http.StatusOK, set)
}
