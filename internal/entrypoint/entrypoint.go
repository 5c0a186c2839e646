package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ozcano/wordpost/internal/auth"
	"github.com/ozcano/wordpost/internal/config"
	"github.com/ozcano/wordpost/internal/database"
	"github.com/ozcano/wordpost/internal/database/emailqueue"
	"github.com/ozcano/wordpost/internal/database/progress"
	"github.com/ozcano/wordpost/internal/database/users"
	"github.com/ozcano/wordpost/internal/database/words"
	"github.com/ozcano/wordpost/internal/database/wordsets"
	"github.com/ozcano/wordpost/internal/digest"
	http_controllers "github.com/ozcano/wordpost/internal/http"
	"github.com/ozcano/wordpost/internal/importer"
	"github.com/ozcano/wordpost/internal/mail"
	"github.com/ozcano/wordpost/internal/scheduler"
	"github.com/ozcano/wordpost/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for SIGINT or SIGTERM, then shut down within the configured
	// timeout.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background workers before closing the listener
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Wordpost v%s", version)

	if cfg.Auth.JWTSecret == "" {
		log.Fatalf("AUTH_JWT_SECRET is not set. Tokens cannot be issued without it.")
	}

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	usersRepo := users.NewRepository(db.DB)
	wordsRepo := words.NewRepository(db.DB)
	progressRepo := progress.NewRepository(db.DB)
	wordSetsRepo := wordsets.NewRepository(db.DB)
	queueRepo := emailqueue.NewRepository(db.DB)

	authService := auth.NewService(usersRepo, wordsRepo, cfg.Auth)
	imp := importer.NewImporter(wordsRepo)

	// Without a SendGrid key the digests are logged instead of sent, which
	// keeps local development working end to end.
	var transport mail.Transport
	if cfg.Email.SendGridAPIKey != "" {
		transport = mail.NewSendGridTransport(cfg.Email)
	} else {
		log.Printf("WARNING: SENDGRID_API_KEY is not set. Emails will be logged, not delivered.")
		transport = mail.NewLogTransport()
	}

	renderer, err := digest.NewRenderer(cfg.Email, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to build email templates: %v", err)
	}

	selector := digest.NewSelector(usersRepo, wordsRepo, wordSetsRepo, queueRepo)
	dispatcher := digest.NewDispatcher(
		queueRepo,
		usersRepo,
		wordSetsRepo,
		renderer,
		transport,
		cfg.Digest.BatchSize,
		cfg.Digest.SendDelay,
	)

	// Background task queue. The backlite sidecar database lives next to
	// the main SQLite file, so the queue is only available on that driver.
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled && cfg.Database.Driver == config.DriverSQLite {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewImportWordsQueue(imp),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	} else if cfg.Tasks.Enabled {
		log.Printf("Task queue requires the sqlite driver; imports will run inline.")
	}

	// Digest pipeline scheduler
	var digestScheduler *scheduler.DigestScheduler
	var schedulerCancel context.CancelFunc
	if cfg.Digest.Enabled {
		digestScheduler = scheduler.NewDigestScheduler(selector, dispatcher, cfg.Digest)

		var schedulerCtx context.Context
		schedulerCtx, schedulerCancel = context.WithCancel(context.Background())
		if err := digestScheduler.Start(schedulerCtx); err != nil {
			log.Fatalf("Failed to start digest scheduler: %v", err)
		}
	} else {
		log.Printf("Digest pipeline is disabled. Word sets and emails will not be generated.")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		Users:          usersRepo,
		Words:          wordsRepo,
		Progress:       progressRepo,
		WordSets:       wordSetsRepo,
		Queue:          queueRepo,
		AuthSvc:        authService,
		Transport:      transport,
		Scheduler:      digestScheduler,
		Importer:       imp,
		TaskClient:     taskClient,
		JWTSecret:      cfg.Auth.JWTSecret,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		Version:        version,
		Email:          cfg.Email,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if digestScheduler != nil {
			digestScheduler.Stop()
			schedulerCancel()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
