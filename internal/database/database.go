package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ozcano/wordpost/internal/config"
	"github.com/ozcano/wordpost/internal/entities"
)

var defaultLanguages = []entities.Language{
	{Code: "tr", Name: "Turkish"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "en", Name: "English"},
}

// Database is the single persistence gateway. The backing store is chosen at
// deployment time via configuration; application logic never branches on the
// active driver.
type Database struct {
	DB *gorm.DB
}

func NewDatabase(cfg config.Database) (*Database, error) {
	dialector, err := openDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.Language{},
		&entities.Word{},
		&entities.ExampleSentence{},
		&entities.Translation{},
		&entities.User{},
		&entities.Preference{},
		&entities.WordProgress{},
		&entities.DailyWordSet{},
		&entities.WordSetItem{},
		&entities.EmailQueueEntry{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db}

	if err := database.seedLanguages(); err != nil {
		return nil, fmt.Errorf("failed to seed languages: %w", err)
	}

	log.Printf("Database initialized (driver: %s)", cfg.Driver)

	return database, nil
}

func openDialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		return sqlite.Open(cfg.Path), nil
	case config.DriverPostgres:
		if cfg.URL == "" {
			return nil, fmt.Errorf("postgres driver selected but DATABASE_URL is empty")
		}
		return postgres.Open(cfg.URL), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping verifies the underlying connection is alive.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) seedLanguages() error {
	for _, lang := range defaultLanguages {
		var existing entities.Language
		result := d.DB.Where("code = ?", lang.Code).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			if err := d.DB.Create(&lang).Error; err != nil {
				return fmt.Errorf("failed to create language %s: %w", lang.Code, err)
			}
			log.Printf("Created language: %s", lang.Name)
		}
	}
	return nil
}
