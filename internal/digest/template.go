package digest

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/ozcano/wordpost/internal/auth"
	"github.com/ozcano/wordpost/internal/config"
	"github.com/ozcano/wordpost/internal/entities"
	"github.com/ozcano/wordpost/internal/mail"
)

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Your Daily {{.TargetLanguage}} Words</title>
<style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0; background-color: #f8fafc; }
.container { max-width: 600px; margin: 0 auto; background-color: #ffffff; }
.header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 40px 30px; text-align: center; }
.header h1 { margin: 0; font-size: 28px; }
.content { padding: 40px 30px; }
.word-card { border: 1px solid #e2e8f0; border-radius: 12px; padding: 24px; margin: 20px 0; background-color: #f8fafc; }
.word-pair { margin-bottom: 16px; }
.source-word { font-size: 24px; font-weight: 700; color: #2d3748; }
.arrow { color: #718096; margin: 0 12px; }
.target-word { font-size: 24px; font-weight: 700; color: #3182ce; }
.example { background-color: #edf2f7; padding: 16px; border-radius: 8px; margin-top: 12px; }
.example-label { font-size: 12px; text-transform: uppercase; color: #718096; font-weight: 600; }
.example-text { font-style: italic; color: #4a5568; margin: 0; }
.difficulty-badge { display: inline-block; padding: 4px 12px; border-radius: 20px; font-size: 12px; font-weight: 600; text-transform: uppercase; margin-top: 8px; background-color: #c6f6d5; color: #22543d; }
.cta { background-color: #f7fafc; padding: 30px; text-align: center; margin-top: 40px; border-radius: 12px; }
.cta a { display: inline-block; background: #667eea; color: white; text-decoration: none; padding: 16px 32px; border-radius: 8px; font-weight: 600; }
.footer { background-color: #2d3748; color: #a0aec0; padding: 30px; text-align: center; font-size: 14px; }
.footer a { color: #63b3ed; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Your Daily {{.TargetLanguage}} Words</h1>
    <p>{{.Date}} &bull; {{.WordCount}} new words to learn</p>
  </div>
  <div class="content">
    <p>Hello {{.UserName}}! Here are your daily {{.TargetLanguage}} words to expand your vocabulary:</p>
    {{range .Words}}
    <div class="word-card">
      <div class="word-pair">
        <span class="source-word">{{.SourceWord}}</span>
        <span class="arrow">&rarr;</span>
        <span class="target-word">{{.TargetWord}}</span>
      </div>
      {{if .SourceExample}}
      <div class="example">
        <div class="example-label">Example ({{$.SourceLanguage}})</div>
        <p class="example-text">{{.SourceExample}}</p>
      </div>
      {{end}}
      {{if .TargetExample}}
      <div class="example">
        <div class="example-label">Example ({{$.TargetLanguage}})</div>
        <p class="example-text">{{.TargetExample}}</p>
      </div>
      {{end}}
      <div class="difficulty-badge">{{.Difficulty}}</div>
    </div>
    {{end}}
    <div class="cta">
      <a href="{{.PracticeURL}}">Practice These Words Online</a>
    </div>
  </div>
  <div class="footer">
    <p>Keep learning and expanding your language skills!</p>
    <p>This email was sent to {{.UserEmail}}</p>
    <p><a href="{{.UnsubscribeURL}}">Unsubscribe from daily emails</a></p>
  </div>
</div>
</body>
</html>
`

const textTemplate = `Your Daily {{.TargetLanguage}} Words - {{.Date}}

Hello {{.UserName}}!

Here are your daily {{.TargetLanguage}} words to expand your vocabulary:
{{range $i, $w := .Words}}
{{inc $i}}. {{$w.SourceWord}} -> {{$w.TargetWord}} ({{$w.Difficulty}})
{{- if $w.SourceExample}}
   Example: {{$w.SourceExample}}
{{- end}}
{{- if $w.TargetExample}}
   Example: {{$w.TargetExample}}
{{- end}}
{{end}}
Practice these words online: {{.PracticeURL}}

Keep learning and expanding your language skills!

---
Unsubscribe: {{.UnsubscribeURL}}
`

type templateWord struct {
	SourceWord    string
	TargetWord    string
	SourceExample string
	TargetExample string
	Difficulty    entities.DifficultyLevel
}

type templateData struct {
	UserName       string
	UserEmail      string
	Date           string
	SourceLanguage string
	TargetLanguage string
	WordCount      int
	Words          []templateWord
	PracticeURL    string
	UnsubscribeURL string
}

// Renderer turns a daily word set into a ready-to-send digest message.
type Renderer struct {
	html      *template.Template
	text      *texttemplate.Template
	jwtSecret string
	baseURL   string
}

func NewRenderer(emailCfg config.Email, authCfg config.Auth) (*Renderer, error) {
	htmlTmpl, err := template.New("digest_html").Parse(htmlTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html template: %w", err)
	}
	textTmpl, err := texttemplate.New("digest_text").
		Funcs(texttemplate.FuncMap{"inc": func(i int) int { return i + 1 }}).
		Parse(textTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text template: %w", err)
	}
	return &Renderer{
		html:      htmlTmpl,
		text:      textTmpl,
		jwtSecret: authCfg.JWTSecret,
		baseURL:   strings.TrimRight(emailCfg.FrontendURL, "/"),
	}, nil
}

// Render produces the digest message for one user's word set. The set must be
// loaded with its items in selection order and word data resolved.
func (r *Renderer) Render(user *entities.User, set *entities.DailyWordSet) (mail.Message, error) {
	data := templateData{
		UserName:       displayName(user),
		UserEmail:      user.Email,
		Date:           formatDate(set.Date),
		SourceLanguage: set.SourceLanguage.Name,
		TargetLanguage: set.TargetLanguage.Name,
		WordCount:      len(set.Items),
		PracticeURL:    r.baseURL + "/words",
		UnsubscribeURL: r.unsubscribeURL(user.Email),
	}
	for _, item := range set.Items {
		word := templateWord{
			SourceWord: item.Translation.SourceWord.Text,
			TargetWord: item.Translation.TargetWord.Text,
			Difficulty: item.Translation.SourceWord.Difficulty,
		}
		if examples := item.Translation.SourceWord.Examples; len(examples) > 0 {
			word.SourceExample = examples[0].Sentence
		}
		if examples := item.Translation.TargetWord.Examples; len(examples) > 0 {
			word.TargetExample = examples[0].Sentence
		}
		data.Words = append(data.Words, word)
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := r.html.Execute(&htmlBuf, data); err != nil {
		return mail.Message{}, fmt.Errorf("failed to render html digest: %w", err)
	}
	if err := r.text.Execute(&textBuf, data); err != nil {
		return mail.Message{}, fmt.Errorf("failed to render text digest: %w", err)
	}

	return mail.Message{
		To:      user.Email,
		ToName:  user.Name,
		Subject: fmt.Sprintf("Your Daily %s Words - %s", set.TargetLanguage.Name, data.Date),
		HTML:    htmlBuf.String(),
		Text:    textBuf.String(),
	}, nil
}

func (r *Renderer) unsubscribeURL(email string) string {
	token := auth.UnsubscribeToken(email, r.jwtSecret)
	return fmt.Sprintf("%s/unsubscribe?email=%s&token=%s", r.baseURL, url.QueryEscape(email), token)
}

func displayName(user *entities.User) string {
	if user.Name != "" {
		return user.Name
	}
	return "there"
}

func formatDate(date string) string {
	parsed, err := time.Parse(entities.WordSetDateLayout, date)
	if err != nil {
		return date
	}
	return parsed.Format("Monday, January 2, 2006")
}
