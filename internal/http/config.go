package http

import (
	"github.com/ozcano/wordpost/internal/auth"
	"github.com/ozcano/wordpost/internal/config"
	"github.com/ozcano/wordpost/internal/database"
	"github.com/ozcano/wordpost/internal/database/emailqueue"
	"github.com/ozcano/wordpost/internal/database/progress"
	"github.com/ozcano/wordpost/internal/database/users"
	"github.com/ozcano/wordpost/internal/database/words"
	"github.com/ozcano/wordpost/internal/database/wordsets"
	"github.com/ozcano/wordpost/internal/importer"
	"github.com/ozcano/wordpost/internal/mail"
	"github.com/ozcano/wordpost/internal/scheduler"
	"github.com/ozcano/wordpost/internal/tasks"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
// This replaces a long parameter list in NewRouter for better
// maintainability.
type RouterConfig struct {
	// Core dependencies
	Database  *database.Database
	Users     *users.Repository
	Words     *words.Repository
	Progress  *progress.Repository
	WordSets  *wordsets.Repository
	Queue     *emailqueue.Repository
	AuthSvc   *auth.Service
	Transport mail.Transport

	// Digest pipeline (optional; admin triggers are hidden when nil)
	Scheduler *scheduler.DigestScheduler

	// Dictionary import
	Importer   *importer.Importer
	TaskClient *tasks.Client

	// Configuration
	JWTSecret      string
	AllowedOrigins []string
	Version        string

	Email config.Email
}
