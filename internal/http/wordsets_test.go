package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozcano/wordpost/internal/entities"
)

func TestWordSetsController_Today(t *testing.T) {
	t.Run("returns today's set with ordered items", func(t *testing.T) {
		server, cleanup := setupTestServer(t)
		defer cleanup()

		userID, token := server.registerUser(t, "alice@example.com")
		server.seedDictionary(t, 3)

		tr, err := server.words.LanguageByCode("tr")
		require.NoError(t, err)
		pt, err := server.words.LanguageByCode("pt")
		require.NoError(t, err)

		translations, err := server.words.PracticeWords(tr.ID, pt.ID, entities.DifficultyBeginner, 3)
		require.NoError(t, err)
		translationIDs := make([]uint, len(translations))
		for i, translation := range translations {
			translationIDs[i] = translation.ID
		}

		set := &entities.DailyWordSet{
			UserID:           userID,
			Date:             time.Now().Format(entities.WordSetDateLayout),
			SourceLanguageID: tr.ID,
			TargetLanguageID: pt.ID,
			Difficulty:       entities.DifficultyBeginner,
		}
		require.NoError(t, server.wordSets.Create(set, translationIDs))

		w := server.request(t, "GET", "/api/wordsets/today", nil, token)

		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Date  string `json:"date"`
			Items []struct {
				SortOrder int `json:"sort_order"`
			} `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, set.Date, resp.Date)
		require.Len(t, resp.Items, 3)
		for i, item := range resp.Items {
			assert.Equal(t, i, item.SortOrder)
		}
	})

	t.Run("404 when no set generated", func(t *testing.T) {
		server, cleanup := setupTestServer(t)
		defer cleanup()

		_, token := server.registerUser(t, "alice@example.com")

		w := server.request(t, "GET", "/api/wordsets/today", nil, token)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("requires auth", func(t *testing.T) {
		server, cleanup := setupTestServer(t)
		defer cleanup()

		w := server.request(t, "GET", "/api/wordsets/today", nil, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
