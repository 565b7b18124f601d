package database

import (
	"fmt"

	"kassa_backend/internal/config"
	"kassa_backend/internal/logger"
	"kassa_backend/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open подключается к БД по database.driver (postgres или mysql).
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	// TranslateError нужен, чтобы дубликаты приходили как gorm.ErrDuplicatedKey
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}
	return db, nil
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Payment{},
		&models.PaymentEvent{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	logger.Info("AutoMigrate успешно завершен")
	return nil
}
