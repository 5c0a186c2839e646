package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ozcano/wordpost/internal/auth"
	"github.com/ozcano/wordpost/internal/config"
	"github.com/ozcano/wordpost/internal/database/emailqueue"
	"github.com/ozcano/wordpost/internal/database/users"
	"github.com/ozcano/wordpost/internal/database/words"
	"github.com/ozcano/wordpost/internal/entities"
	"github.com/ozcano/wordpost/internal/mail"
)

// EmailController serves digest subscription management and test sends.
type EmailController struct {
	users     *users.Repository
	words     *words.Repository
	queue     *emailqueue.Repository
	transport mail.Transport
	jwtSecret string
	emailCfg  config.Email
}

func NewEmailController(
	usersRepo *users.Repository,
	wordsRepo *words.Repository,
	queueRepo *emailqueue.Repository,
	transport mail.Transport,
	jwtSecret string,
	emailCfg config.Email,
) *EmailController {
	return &EmailController{
		users:     usersRepo,
		words:     wordsRepo,
		queue:     queueRepo,
		transport: transport,
		jwtSecret: jwtSecret,
		emailCfg:  emailCfg,
	}
}

func (e *EmailController) Subscribe(c *gin.Context) {
	e.setSubscription(c, true, "Successfully subscribed to daily emails")
}

func (e *EmailController) Unsubscribe(c *gin.Context) {
	e.setSubscription(c, false, "Successfully unsubscribed from daily emails")
}

func (e *EmailController) setSubscription(c *gin.Context, subscribed bool, message string) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	err := e.users.SetEmailSubscription(userID, subscribed)
	if errors.Is(err, users.ErrNotFound) {
		respondNotFound(c, "user preference")
		return
	}
	if err != nil {
		respondInternalError(c, err, "set subscription")
		return
	}

	respondSuccess(c, message)
}

func (e *EmailController) Status(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	subscribed, err := e.users.IsEmailSubscribed(userID)
	if err != nil {
		respondInternalError(c, err, "subscription status")
		return
	}

	entries, err := e.queue.EntriesForUser(userID, 10)
	if err != nil {
		respondInternalError(c, err, "queue history")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_subscribed": subscribed,
		"recent_emails": entries,
	})
}

// UnsubscribeByToken handles the one-click unsubscribe links embedded in
// digest footers. No login is required; the HMAC token proves the link came
// from an email we sent.
func (e *EmailController) UnsubscribeByToken(c *gin.Context) {
	email := c.Query("email")
	token := c.Query("token")
	if email == "" || token == "" {
		respondBadRequest(c, "email and token are required")
		return
	}

	if !auth.VerifyUnsubscribeToken(email, e.jwtSecret, token) {
		respondError(c, http.StatusForbidden, "Invalid unsubscribe token")
		return
	}

	err := e.users.SetEmailSubscriptionByEmail(email, false)
	if errors.Is(err, users.ErrNotFound) {
		respondNotFound(c, "user")
		return
	}
	if err != nil {
		respondInternalError(c, err, "unsubscribe by token")
		return
	}

	respondSuccess(c, "Successfully unsubscribed from daily emails")
}

// SendTest sends a short sample digest to the caller so they can verify
// delivery before subscribing.
func (e *EmailController) SendTest(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := e.users.GetByID(userID)
	if errors.Is(err, users.ErrNotFound) {
		respondNotFound(c, "user")
		return
	}
	if err != nil {
		respondInternalError(c, err, "load user")
		return
	}

	samples, err := e.sampleTranslations(user)
	if err != nil {
		respondInternalError(c, err, "sample words")
		return
	}

	msg := e.buildTestMessage(user, samples)
	if err := e.transport.Send(c.Request.Context(), msg); err != nil {
		respondInternalError(c, err, "send test email")
		return
	}

	respondSuccess(c, "Test email sent successfully")
}

func (e *EmailController) sampleTranslations(user *entities.User) ([]entities.Translation, error) {
	if user.Preference == nil {
		return nil, nil
	}
	return e.words.PracticeWords(
		user.Preference.SourceLanguageID,
		user.Preference.TargetLanguageID,
		user.Preference.Difficulty,
		3,
	)
}

func (e *EmailController) buildTestMessage(user *entities.User, samples []entities.Translation) mail.Message {
	var html, text strings.Builder
	html.WriteString("<div style=\"font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;\">")
	fmt.Fprintf(&html, "<h2>Daily Words Test</h2><p>Hello %s!</p><p>Here is a sample of your daily words:</p>", user.Name)
	fmt.Fprintf(&text, "Hello %s!\n\nHere is a sample of your daily words:\n\n", user.Name)

	for _, sample := range samples {
		fmt.Fprintf(&html, "<p><strong>%s</strong> &rarr; <strong>%s</strong></p>",
			sample.SourceWord.Text, sample.TargetWord.Text)
		fmt.Fprintf(&text, "%s -> %s\n", sample.SourceWord.Text, sample.TargetWord.Text)
	}

	html.WriteString("<p>Keep learning! Visit the app to practice more words.</p></div>")
	text.WriteString("\nKeep learning! Visit the app to practice more words.\n")

	return mail.Message{
		To:      user.Email,
		ToName:  user.Name,
		Subject: "Your Daily Words - Test Email",
		HTML:    html.String(),
		Text:    text.String(),
	}
}
