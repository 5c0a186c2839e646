package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ozcano/wordpost/internal/auth"
	"github.com/ozcano/wordpost/internal/database/users"
	"github.com/ozcano/wordpost/internal/entities"
)

// AuthController serves registration, login and profile management.
type AuthController struct {
	service *auth.Service
	users   *users.Repository
}

func NewAuthController(service *auth.Service, usersRepo *users.Repository) *AuthController {
	return &AuthController{service: service, users: usersRepo}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    *entities.User `json:"user"`
}

func (a *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email, password and name are required")
		return
	}

	result, err := a.service.Register(req.Email, req.Password, req.Name)
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		respondBadRequest(c, "User already exists")
	case errors.Is(err, auth.ErrPasswordTooShort), errors.Is(err, auth.ErrPasswordTooLong):
		respondBadRequest(c, err.Error())
	case err != nil:
		respondInternalError(c, err, "register")
	default:
		respondCreated(c, authResponse{
			Message: "User created successfully",
			Token:   result.Token,
			User:    result.User,
		})
	}
}

func (a *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "email and password are required")
		return
	}

	result, err := a.service.Login(req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
	case err != nil:
		respondInternalError(c, err, "login")
	default:
		c.JSON(http.StatusOK, authResponse{
			Message: "Login successful",
			Token:   result.Token,
			User:    result.User,
		})
	}
}

func (a *AuthController) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := a.users.GetByID(userID)
	if errors.Is(err, users.ErrNotFound) {
		respondNotFound(c, "user")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	Name       string `json:"name"`
	Preference *struct {
		SourceLanguageID  uint                     `json:"source_language_id" binding:"required"`
		TargetLanguageID  uint                     `json:"target_language_id" binding:"required"`
		Difficulty        entities.DifficultyLevel `json:"difficulty" binding:"required"`
		WordsPerDay       int                      `json:"words_per_day" binding:"required,min=1,max=50"`
		IsEmailSubscribed bool                     `json:"is_email_subscribed"`
	} `json:"preference"`
}

func (a *AuthController) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid profile payload")
		return
	}

	if req.Name != "" {
		if err := a.users.UpdateName(userID, req.Name); err != nil {
			respondInternalError(c, err, "update name")
			return
		}
	}

	if req.Preference != nil {
		if !entities.ValidDifficulty(req.Preference.Difficulty) {
			respondBadRequest(c, "invalid difficulty level")
			return
		}
		err := a.users.UpdatePreference(userID, users.PreferenceUpdate{
			SourceLanguageID:  req.Preference.SourceLanguageID,
			TargetLanguageID:  req.Preference.TargetLanguageID,
			Difficulty:        req.Preference.Difficulty,
			WordsPerDay:       req.Preference.WordsPerDay,
			IsEmailSubscribed: req.Preference.IsEmailSubscribed,
		})
		if err != nil {
			respondInternalError(c, err, "update preference")
			return
		}
	}

	user, err := a.users.GetByID(userID)
	if err != nil {
		respondInternalError(c, err, "reload profile")
		return
	}
	c.JSON(http.StatusOK, user)
}
