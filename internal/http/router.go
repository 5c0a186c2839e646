// Package http wires the REST API: route registration, controllers and
// request/response shapes.
package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ozcano/wordpost/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg.AllowedOrigins))

	requireAuth := auth.RequireAuth(cfg.JWTSecret)

	health := NewHealthController(cfg.Database, cfg.Version)
	authController := NewAuthController(cfg.AuthSvc, cfg.Users)
	wordsController := NewWordsController(cfg.Words)
	progressController := NewProgressController(cfg.Progress)
	emailController := NewEmailController(cfg.Users, cfg.Words, cfg.Queue, cfg.Transport, cfg.JWTSecret, cfg.Email)
	wordSetsController := NewWordSetsController(cfg.WordSets)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// Auth endpoints
	router.POST("/api/auth/register", authController.Register)
	router.POST("/api/auth/login", authController.Login)
	router.GET("/api/auth/profile", requireAuth, authController.GetProfile)
	router.PUT("/api/auth/profile", requireAuth, authController.UpdateProfile)

	// Dictionary endpoints (anonymous browse)
	router.GET("/api/words", wordsController.PracticeWords)
	router.GET("/api/words/languages", wordsController.Languages)
	router.GET("/api/words/difficulty-levels", wordsController.DifficultyLevels)

	// Progress endpoints
	router.POST("/api/progress/word/:wordId", requireAuth, progressController.RecordReview)
	router.GET("/api/progress/stats", requireAuth, progressController.Stats)
	router.GET("/api/progress/words/:masteryLevel", requireAuth, progressController.WordsByMastery)
	router.GET("/api/progress/streak", requireAuth, progressController.Streak)

	// Email subscription endpoints
	router.POST("/api/email/subscribe", requireAuth, emailController.Subscribe)
	router.POST("/api/email/unsubscribe", requireAuth, emailController.Unsubscribe)
	router.GET("/api/email/status", requireAuth, emailController.Status)
	router.POST("/api/email/test", requireAuth, emailController.SendTest)

	// One-click unsubscribe from digest footer links (no auth, HMAC token)
	router.GET("/unsubscribe", emailController.UnsubscribeByToken)

	// Word set endpoints
	router.GET("/api/wordsets/today", requireAuth, wordSetsController.Today)

	// Admin endpoints
	if cfg.Importer != nil {
		adminController := NewAdminController(cfg.Importer, cfg.TaskClient, cfg.Scheduler, cfg.Queue)
		router.POST("/api/admin/import/words", requireAuth, adminController.ImportWords)
		router.POST("/api/admin/digest/generate", requireAuth, adminController.TriggerGeneration)
		router.POST("/api/admin/digest/dispatch", requireAuth, adminController.TriggerDispatch)
		router.GET("/api/admin/digest/queue", requireAuth, adminController.QueueCounts)
		router.GET("/api/admin/tasks/:id", requireAuth, adminController.TaskStatus)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	return cors.New(corsConfig)
}
