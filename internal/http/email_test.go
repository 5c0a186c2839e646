package http

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozcano/wordpost/internal/auth"
)

func TestEmailController_SubscribeUnsubscribe(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	userID, token := server.registerUser(t, "alice@example.com")

	w := server.request(t, "POST", "/api/email/subscribe", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	subscribed, err := server.users.IsEmailSubscribed(userID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	w = server.request(t, "POST", "/api/email/unsubscribe", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	subscribed, err = server.users.IsEmailSubscribed(userID)
	require.NoError(t, err)
	assert.False(t, subscribed)
}

func TestEmailController_Status(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	userID, token := server.registerUser(t, "alice@example.com")
	require.NoError(t, server.queue.Enqueue(userID, 1))

	w := server.request(t, "GET", "/api/email/status", nil, token)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		IsSubscribed bool              `json:"is_subscribed"`
		RecentEmails []json.RawMessage `json:"recent_emails"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.IsSubscribed)
	assert.Len(t, resp.RecentEmails, 1)
}

func TestEmailController_UnsubscribeByToken(t *testing.T) {
	t.Run("unsubscribes with valid token", func(t *testing.T) {
		server, cleanup := setupTestServer(t)
		defer cleanup()

		userID, token := server.registerUser(t, "alice@example.com")
		w := server.request(t, "POST", "/api/email/subscribe", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		unsubToken := auth.UnsubscribeToken("alice@example.com", testJWTSecret)
		path := "/unsubscribe?email=" + url.QueryEscape("alice@example.com") + "&token=" + unsubToken

		w = server.request(t, "GET", path, nil, "")

		require.Equal(t, http.StatusOK, w.Code)

		subscribed, err := server.users.IsEmailSubscribed(userID)
		require.NoError(t, err)
		assert.False(t, subscribed)
	})

	t.Run("rejects forged token", func(t *testing.T) {
		server, cleanup := setupTestServer(t)
		defer cleanup()

		userID, token := server.registerUser(t, "alice@example.com")
		w := server.request(t, "POST", "/api/email/subscribe", nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		path := "/unsubscribe?email=" + url.QueryEscape("alice@example.com") + "&token=forged"

		w = server.request(t, "GET", path, nil, "")

		assert.Equal(t, http.StatusForbidden, w.Code)

		subscribed, err := server.users.IsEmailSubscribed(userID)
		require.NoError(t, err)
		assert.True(t, subscribed)
	})

	t.Run("requires parameters", func(t *testing.T) {
		server, cleanup := setupTestServer(t)
		defer cleanup()

		w := server.request(t, "GET", "/unsubscribe", nil, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEmailController_SendTest(t *testing.T) {
	server, cleanup := setupTestServer(t)
	defer cleanup()

	_, token := server.registerUser(t, "alice@example.com")
	server.seedDictionary(t, 3)

	w := server.request(t, "POST", "/api/email/test", nil, token)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, server.transport.sent, 1)
	msg := server.transport.sent[0]
	assert.Equal(t, "alice@example.com", msg.To)
	assert.Contains(t, msg.Subject, "Test Email")
	assert.NotEmpty(t, msg.HTML)
}
