package cli

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ozcano/wordpost/internal/config"
	"github.com/ozcano/wordpost/internal/database"
	"github.com/ozcano/wordpost/internal/database/emailqueue"
	"github.com/ozcano/wordpost/internal/database/users"
	"github.com/ozcano/wordpost/internal/database/words"
	"github.com/ozcano/wordpost/internal/database/wordsets"
	"github.com/ozcano/wordpost/internal/digest"
)

// GenerateCommand runs one word-set generation sweep from the command line,
// outside the scheduler. Useful for backfills and for cron-based deployments
// that prefer an external scheduler.
type GenerateCommand struct {
	DatabasePath string
}

func NewGenerateCommand() *GenerateCommand {
	return &GenerateCommand{}
}

func (cmd *GenerateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the SQLite database file (defaults to DATABASE_PATH)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s generate [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Build today's word set for every subscribed user and queue the\n")
		fmt.Fprintf(os.Stderr, "matching digest emails. Users who already have a set for today\n")
		fmt.Fprintf(os.Stderr, "are skipped.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *GenerateCommand) Run() error {
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

	selector := digest.NewSelector(
		users.NewRepository(db.DB),
		words.NewRepository(db.DB),
		wordsets.NewRepository(db.DB),
		emailqueue.NewRepository(db.DB),
	)

	fmt.Println("Generating daily word sets...")
	result := selector.RunDailyGeneration(time.Now())

	fmt.Println("\n=== Generation Summary ===")
	fmt.Printf("Subscribed users: %d\n", result.Users)
	fmt.Printf("Word sets created: %d\n", result.Created)
	fmt.Printf("Skipped: %d\n", result.Skipped)
	if result.Errors > 0 {
		fmt.Printf("Errors: %d\n", result.Errors)
	}

	return nil
}
