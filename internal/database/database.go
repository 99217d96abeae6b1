package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/folio/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

// Stats summarises what is stored.
type Stats struct {
	Highlights       int64 `json:"highlights"`
	LegacyHighlights int64 `json:"legacy_highlights"`
	Documents        int64 `json:"documents"`
}

func NewDatabase(dbPath string) (*Database, error) {
	return open(dbPath, logger.Default.LogMode(logger.Warn))
}

// NewQuietDatabase opens the database without SQL logging, for CLI runs and tests.
func NewQuietDatabase(dbPath string) (*Database, error) {
	return open(dbPath, logger.Default.LogMode(logger.Silent))
}

func open(dbPath string, l logger.Interface) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath+"?_busy_timeout=5000"), &gorm.Config{
		Logger: l,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.Highlight{},
		&entities.PageDocument{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the connection is usable.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) Stats() (Stats, error) {
	var s Stats
	if err := d.DB.Model(&entities.Highlight{}).Count(&s.Highlights).Error; err != nil {
		return s, err
	}
	if err := d.DB.Model(&entities.Highlight{}).Where("rangy IS NULL OR TRIM(rangy) = ''").Count(&s.LegacyHighlights).Error; err != nil {
		return s, err
	}
	if err := d.DB.Model(&entities.PageDocument{}).Count(&s.Documents).Error; err != nil {
		return s, err
	}
	return s, nil
}
