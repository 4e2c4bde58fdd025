package database

import (
	"fmt"
	"log"

	"summercamp/config"
	"summercamp/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbInstance holds the database connection. It is created once on startup
// and handed to every component that needs storage.
type DbInstance struct {
	Db *gorm.DB
}

// Connect opens the database selected by cfg.DBDriver and configures the pool.
func Connect(cfg *config.Config) (*DbInstance, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)
		dialector = postgres.Open(dsn)
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
		)
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(cfg.DBPath + "?_busy_timeout=5000&_foreign_keys=on")
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", cfg.DBDriver)
	}

	instance, err := Open(dialector)
	if err != nil {
		return nil, err
	}

	sqlDB, err := instance.Db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql handle: %w", err)
	}
	if cfg.DBDriver == "sqlite" {
		// sqlite serialises writers; one connection avoids lock errors
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10) // Maximum open connections
		sqlDB.SetMaxIdleConns(5)  // Maximum idle connections
	}
	sqlDB.SetConnMaxLifetime(0) // No timeout

	return instance, nil
}

// Open wraps an already chosen dialector. Tests use it with sqlite.
func Open(dialector gorm.Dialector) (*DbInstance, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}
	return &DbInstance{Db: db}, nil
}

// Migrate performs database migrations
func (d *DbInstance) Migrate() error {
	log.Println("Running Migrations...")

	err := d.Db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.CartItem{},
		&models.Payment{},
		&models.Enrollment{},
		&models.ReconciliationTask{},
		&models.Review{},
	)
	if err != nil {
		return fmt.Errorf("database: migrate: %w", err)
	}

	log.Println("Migrations completed successfully.")
	return nil
}

// Close releases the underlying connection pool.
func (d *DbInstance) Close() error {
	sqlDB, err := d.Db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
