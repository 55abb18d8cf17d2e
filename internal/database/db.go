package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jibbitats/jibbit-ats/internal/config"
	"github.com/jibbitats/jibbit-ats/internal/logger"
	"github.com/jibbitats/jibbit-ats/internal/models"
)

// DefaultUserEmail identifies the single local user created on first run.
const DefaultUserEmail = "default"

// Connect opens the configured database and runs migrations.
func Connect(cfg *config.DatabaseConfig, log *logger.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	log.WithField("driver", cfg.Driver).Info("database connection established")

	log.Info("running migrations")
	if err := db.AutoMigrate(
		&models.User{},
		&models.Application{},
		&models.CompanyInfo{},
		&models.StatusHistoryEntry{},
		&models.Contact{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// EnsureDefaultUser creates the default user if missing and returns it.
func EnsureDefaultUser(db *gorm.DB) (*models.User, error) {
	var user models.User
	if err := db.Where(models.User{Email: DefaultUserEmail}).FirstOrCreate(&user).Error; err != nil {
		return nil, fmt.Errorf("ensure default user: %w", err)
	}
	return &user, nil
}
