package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ozcano/wordpost/internal/auth"
	"github.com/ozcano/wordpost/internal/config"
	"github.com/ozcano/wordpost/internal/database"
	"github.com/ozcano/wordpost/internal/database/emailqueue"
	"github.com/ozcano/wordpost/internal/database/progress"
	"github.com/ozcano/wordpost/internal/database/users"
	"github.com/ozcano/wordpost/internal/database/words"
	"github.com/ozcano/wordpost/internal/database/wordsets"
	"github.com/ozcano/wordpost/internal/entities"
	"github.com/ozcano/wordpost/internal/importer"
	"github.com/ozcano/wordpost/internal/mail"
)

const testJWTSecret = "test-secret"

type testServer struct {
	router    *gin.Engine
	db        *database.Database
	users     *users.Repository
	words     *words.Repository
	wordSets  *wordsets.Repository
	queue     *emailqueue.Repository
	transport *recordingTransport
}

type recordingTransport struct {
	sent []mail.Message
}

func (r *recordingTransport) Send(_ context.Context, msg mail.Message) error {
	r.sent = append(r.sent, msg)
	return nil
}

func setupTestServer(t *testing.T) (*testServer, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(config.Database{Driver: config.DriverSQLite, Path: dbPath})
	require.NoError(t, err)

	authCfg := config.Auth{JWTSecret: testJWTSecret, TokenExpiry: time.Hour, BcryptCost: 4}
	usersRepo := users.NewRepository(db.DB)
	wordsRepo := words.NewRepository(db.DB)
	transport := &recordingTransport{}

	server := &testServer{
		db:        db,
		users:     usersRepo,
		words:     wordsRepo,
		wordSets:  wordsets.NewRepository(db.DB),
		queue:     emailqueue.NewRepository(db.DB),
		transport: transport,
	}
	server.router = NewRouter(RouterConfig{
		Database:       db,
		Users:          usersRepo,
		Words:          wordsRepo,
		Progress:       progress.NewRepository(db.DB),
		WordSets:       server.wordSets,
		Queue:          server.queue,
		AuthSvc:        auth.NewService(usersRepo, wordsRepo, authCfg),
		Transport:      transport,
		Importer:       importer.NewImporter(wordsRepo),
		JWTSecret:      testJWTSecret,
		AllowedOrigins: []string{"*"},
		Version:        "test",
		Email:          config.Email{FrontendURL: "http://localhost:5173"},
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return server, cleanup
}

// registerUser creates an account through the API and returns the user id
// and bearer token.
func (s *testServer) registerUser(t *testing.T, email string) (uint, string) {
	t.Helper()
	w := s.request(t, "POST", "/api/auth/register", map[string]any{
		"email":    email,
		"password": "password123",
		"name":     "Test User",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.User.ID, resp.Token
}

func (s *testServer) request(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// seedDictionary inserts verified tr->pt translations and returns the source
// word ids.
func (s *testServer) seedDictionary(t *testing.T, count int) []uint {
	t.Helper()
	tr, err := s.words.LanguageByCode("tr")
	require.NoError(t, err)
	pt, err := s.words.LanguageByCode("pt")
	require.NoError(t, err)

	var sourceIDs []uint
	for i := range count {
		rank := i + 1
		source := &entities.Word{
			Text:          "kelime" + string(rune('a'+i)),
			LanguageID:    tr.ID,
			Difficulty:    entities.DifficultyBeginner,
			FrequencyRank: &rank,
		}
		require.NoError(t, s.words.CreateWord(source))
		require.NoError(t, s.words.AddExample(source.ID, "örnek cümle"))

		target := &entities.Word{
			Text:       "palavra" + string(rune('a'+i)),
			LanguageID: pt.ID,
			Difficulty: entities.DifficultyBeginner,
		}
		require.NoError(t, s.words.CreateWord(target))
		_, err = s.words.CreateTranslation(source.ID, target.ID, true)
		require.NoError(t, err)
		sourceIDs = append(sourceIDs, source.ID)
	}
	return sourceIDs
}
