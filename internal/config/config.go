package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type DatabaseDriver string

const (
	DriverSQLite   DatabaseDriver = "sqlite"
	DriverPostgres DatabaseDriver = "postgres"
)

type (
	Config struct {
		HTTP
		Database
		Auth
		Email
		Digest
		Tasks
		Global
	}

	HTTP struct {
		Port           int32
		Host           string
		AllowedOrigins []string
	}
	Database struct {
		Driver DatabaseDriver
		Path   string // SQLite file path
		URL    string // Postgres DSN
	}
	Auth struct {
		JWTSecret   string
		TokenExpiry time.Duration
		BcryptCost  int
	}
	Email struct {
		SendGridAPIKey string
		FromAddress    string
		FromName       string
		FrontendURL    string
	}
	Digest struct {
		Enabled            bool
		GenerationSchedule string // Cron format: "0 8 * * *" = daily at 08:00
		DispatchSchedule   string // Cron format: "*/5 * * * *" = every 5 minutes
		BatchSize          int
		SendDelay          time.Duration
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("allowed_origins", "*")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	// Database defaults
	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_url", "")

	// Auth defaults
	v.SetDefault("auth_jwt_secret", "")
	v.SetDefault("auth_token_expiry", "168h") // 7 days
	v.SetDefault("auth_bcrypt_cost", 10)

	// Email defaults
	v.SetDefault("sendgrid_api_key", "")
	v.SetDefault("email_from", "noreply@wordpost.app")
	v.SetDefault("email_from_name", "Wordpost")
	v.SetDefault("frontend_url", "http://localhost:5173")

	// Digest pipeline defaults
	v.SetDefault("digest_enabled", true)
	v.SetDefault("digest_generation_schedule", "0 8 * * *") // Daily at 08:00
	v.SetDefault("digest_dispatch_schedule", "*/5 * * * *") // Every 5 minutes
	v.SetDefault("digest_batch_size", DefaultDispatchBatchSize)
	v.SetDefault("digest_send_delay", "1s")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port:           v.GetInt32("PORT"),
			Host:           v.GetString("HOST"),
			AllowedOrigins: strings.Split(v.GetString("ALLOWED_ORIGINS"), ","),
		},
		Database: Database{
			Driver: DatabaseDriver(v.GetString("DATABASE_DRIVER")),
			Path:   v.GetString("DATABASE_PATH"),
			URL:    v.GetString("DATABASE_URL"),
		},
		Auth: Auth{
			JWTSecret:   v.GetString("AUTH_JWT_SECRET"),
			TokenExpiry: v.GetDuration("AUTH_TOKEN_EXPIRY"),
			BcryptCost:  v.GetInt("AUTH_BCRYPT_COST"),
		},
		Email: Email{
			SendGridAPIKey: v.GetString("SENDGRID_API_KEY"),
			FromAddress:    v.GetString("EMAIL_FROM"),
			FromName:       v.GetString("EMAIL_FROM_NAME"),
			FrontendURL:    v.GetString("FRONTEND_URL"),
		},
		Digest: Digest{
			Enabled:            v.GetBool("DIGEST_ENABLED"),
			GenerationSchedule: v.GetString("DIGEST_GENERATION_SCHEDULE"),
			DispatchSchedule:   v.GetString("DIGEST_DISPATCH_SCHEDULE"),
			BatchSize:          v.GetInt("DIGEST_BATCH_SIZE"),
			SendDelay:          v.GetDuration("DIGEST_SEND_DELAY"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}
