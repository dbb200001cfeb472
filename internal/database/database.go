package database

import (
	"fmt"

	"admin-dashboard-api/internal/logging"
	"admin-dashboard-api/internal/models"

	"github.com/glebarez/sqlite"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB opens the SQLite database at path and runs migrations
func InitDB(path string, logSQL bool) error {
	// glebarez/sqlite is a pure Go driver (no CGO required)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logging.GormLogger(logSQL),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only allows one writer; a single connection avoids "database is locked"
	// when moves from several clients land at once.
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	DB = db
	log.WithField("path", path).Info("database connected and migrated")
	return nil
}

// Migrate creates or updates the schema
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.KanbanColumn{},
		&models.KanbanTask{},
	)
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}

// Close closes the database connection
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
