package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/ozcano/wordpost/internal/importer"
)

// ImportWordsTask imports a dictionary seed file in the background so large
// files do not block the request that triggered them.
type ImportWordsTask struct {
	Path string `json:"path"`
}

func (t ImportWordsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "import_words",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportWordsProcessor creates a processor for dictionary imports.
func ImportWordsProcessor(imp *importer.Importer) backlite.QueueProcessor[ImportWordsTask] {
	return func(ctx context.Context, task ImportWordsTask) error {
		stats, err := imp.ImportFile(task.Path)
		if err != nil {
			return fmt.Errorf("import %s: %w", task.Path, err)
		}
		log.Printf("[TASK] Imported %s: %d entries, %d words, %d translations",
			task.Path, stats.Entries, stats.Words, stats.Translations)
		return nil
	}
}

func NewImportWordsQueue(imp *importer.Importer) backlite.Queue {
	return backlite.NewQueue(ImportWordsProcessor(imp))
}
