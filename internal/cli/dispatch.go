package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ozcano/wordpost/internal/config"
	"github.com/ozcano/wordpost/internal/database"
	"github.com/ozcano/wordpost/internal/database/emailqueue"
	"github.com/ozcano/wordpost/internal/database/users"
	"github.com/ozcano/wordpost/internal/database/wordsets"
	"github.com/ozcano/wordpost/internal/digest"
	"github.com/ozcano/wordpost/internal/mail"
)

// DispatchCommand drains one batch of the email queue from the command line.
type DispatchCommand struct {
	DatabasePath string
	BatchSize    int
	DryRun       bool
}

func NewDispatchCommand() *DispatchCommand {
	return &DispatchCommand{}
}

func (cmd *DispatchCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("dispatch", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the SQLite database file (defaults to DATABASE_PATH)")
	fs.IntVar(&cmd.BatchSize, "batch", config.DefaultDispatchBatchSize, "Maximum number of emails to send in this run")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Log emails instead of sending them through SendGrid")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s dispatch [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Send one batch of queued digest emails. Failed sends are requeued\n")
		fmt.Fprintf(os.Stderr, "and retried on the next run until the retry limit is reached.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *DispatchCommand) Run() error {
	cfg := config.NewConfig()
	if cmd.DatabasePath != "" {
		cfg.Database.Driver = config.DriverSQLite
		cfg.Database.Path = cmd.DatabasePath
	}

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	var transport mail.Transport
	if cmd.DryRun || cfg.Email.SendGridAPIKey == "" {
		if !cmd.DryRun {
			fmt.Println("SENDGRID_API_KEY is not set, emails will be logged instead of sent")
		}
		transport = mail.NewLogTransport()
	} else {
		transport = mail.NewSendGridTransport(cfg.Email)
	}

	renderer, err := digest.NewRenderer(cfg.Email, cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to build email templates: %w", err)
	}

	dispatcher := digest.NewDispatcher(
		emailqueue.NewRepository(db.DB),
		users.NewRepository(db.DB),
		wordsets.NewRepository(db.DB),
		renderer,
		transport,
		cmd.BatchSize,
		cfg.Digest.SendDelay,
	)

	fmt.Println("Dispatching queued emails...")
	stats, err := dispatcher.RunDispatchCycle(context.Background())
	if err != nil {
		return fmt.Errorf("dispatch failed: %w", err)
	}

	fmt.Println("\n=== Dispatch Summary ===")
	fmt.Printf("Attempted: %d\n", stats.Attempted)
	fmt.Printf("Sent: %d\n", stats.Sent)
	if stats.Failed > 0 {
		fmt.Printf("Failed: %d\n", stats.Failed)
	}

	return nil
}
