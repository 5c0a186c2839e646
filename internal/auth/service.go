// Package auth handles passwords, bearer tokens and the registration and
// login flows.
package auth

import (
	"errors"
	"fmt"

	"github.com/ozcano/wordpost/internal/config"
	"github.com/ozcano/wordpost/internal/database/users"
	"github.com/ozcano/wordpost/internal/database/words"
	"github.com/ozcano/wordpost/internal/entities"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Default learning preference for new accounts: Turkish to Portuguese,
// beginner, five words a day, not subscribed until the user opts in.
const (
	defaultSourceLanguage = "tr"
	defaultTargetLanguage = "pt"
	defaultWordsPerDay    = 5
)

// Service implements registration and login on top of the users repository.
type Service struct {
	users *users.Repository
	words *words.Repository
	cfg   config.Auth
}

func NewService(usersRepo *users.Repository, wordsRepo *words.Repository, cfg config.Auth) *Service {
	return &Service{users: usersRepo, words: wordsRepo, cfg: cfg}
}

// AuthResult is a successful registration or login: the user plus a signed
// bearer token.
type AuthResult struct {
	User  *entities.User
	Token string
}

// Register creates a user with the default learning preference and returns a
// signed token so the client is logged in immediately.
func (s *Service) Register(email, password, name string) (*AuthResult, error) {
	if _, err := s.users.GetByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, users.ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	pref, err := s.defaultPreference()
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.users.CreateWithPreference(user, pref); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueFor(user)
}

// Login verifies credentials and returns a signed token. Inactive accounts
// cannot log in.
func (s *Service) Login(email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(email)
	if errors.Is(err, users.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueFor(user)
}

func (s *Service) issueFor(user *entities.User) (*AuthResult, error) {
	token, err := IssueToken(user.ID, user.Email, user.Name, s.cfg.JWTSecret, s.cfg.TokenExpiry)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *Service) defaultPreference() (*entities.Preference, error) {
	source, err := s.words.LanguageByCode(defaultSourceLanguage)
	if err != nil {
		return nil, fmt.Errorf("default source language missing: %w", err)
	}
	target, err := s.words.LanguageByCode(defaultTargetLanguage)
	if err != nil {
		return nil, fmt.Errorf("default target language missing: %w", err)
	}
	return &entities.Preference{
		SourceLanguageID:  source.ID,
		TargetLanguageID:  target.ID,
		Difficulty:        entities.DifficultyBeginner,
		WordsPerDay:       defaultWordsPerDay,
		IsEmailSubscribed: false,
	}, nil
}
