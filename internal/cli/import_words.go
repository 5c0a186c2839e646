package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ozcano/wordpost/internal/config"
	"github.com/ozcano/wordpost/internal/database"
	"github.com/ozcano/wordpost/internal/database/words"
	"github.com/ozcano/wordpost/internal/importer"
)

// ImportWordsCommand loads a dictionary seed file into the database.
type ImportWordsCommand struct {
	FilePath     string
	DatabasePath string
}

func NewImportWordsCommand() *ImportWordsCommand {
	return &ImportWordsCommand{}
}

func (cmd *ImportWordsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-words", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the JSON dictionary seed file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the SQLite database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-words -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import dictionary entries from a JSON seed file.\n\n")
		fmt.Fprintf(os.Stderr, "Each entry carries the same word in several languages, keyed by\n")
		fmt.Fprintf(os.Stderr, "language code, plus an optional difficulty and frequency rank:\n\n")
		fmt.Fprintf(os.Stderr, "  [{\"words\": {\"tr\": {\"word\": \"su\"}, \"pt\": {\"word\": \"agua\"}},\n")
		fmt.Fprintf(os.Stderr, "    \"difficulty\": \"beginner\", \"frequency_rank\": 10}]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *ImportWordsCommand) Run() error {
	fmt.Println("Dictionary Import")
	fmt.Println("=================")

	if _, err := os.Stat(cmd.FilePath); os.IsNotExist(err) {
		return fmt.Errorf("seed file not found: %s", cmd.FilePath)
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	fmt.Printf("File: %s\n", cmd.FilePath)
	fmt.Printf("Database: %s\n", cmd.DatabasePath)

	db, err := database.NewDatabase(config.Database{
		Driver: config.DriverSQLite,
		Path:   cmd.DatabasePath,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	imp := importer.NewImporter(words.NewRepository(db.DB))

	stats, err := imp.ImportFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Println("\n=== Import Summary ===")
	fmt.Printf("Entries imported: %d\n", stats.Entries)
	fmt.Printf("New words: %d\n", stats.Words)
	fmt.Printf("New translations: %d\n", stats.Translations)
	if stats.Skipped > 0 {
		fmt.Printf("Skipped entries: %d\n", stats.Skipped)
	}

	fmt.Println("\nImport complete!")
	return nil
}
