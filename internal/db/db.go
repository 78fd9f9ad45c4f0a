package db

import (
	"context" // Bounded connection attempts
	"fmt"     // Error wrapping
	"time"    // Backoff interval

	"github.com/cenkalti/backoff/v4" // Startup connection retries
	"github.com/sirupsen/logrus"     // Logging
	"gorm.io/driver/mysql"           // MySQL driver for GORM
	"gorm.io/driver/postgres"        // PostgreSQL driver for GORM
	"gorm.io/driver/sqlite"          // SQLite driver for GORM
	"gorm.io/gorm"                   // GORM ORM library
	"gorm.io/gorm/logger"            // GORM log level

	"token_swipe/internal/config" // Database settings
	"token_swipe/internal/domain" // Models to migrate
)

// Dialector returns the GORM dialector for the configured driver
func Dialector(cfg config.DBConfig) (gorm.Dialector, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	switch cfg.Driver {
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return mysql.Open(dsn), nil
	}
}

// Open connects to the database, retrying with exponential backoff until
// cfg.ConnectTimeout elapses. Only process startup retries; the ledger never does.
func Open(ctx context.Context, cfg config.DBConfig) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = cfg.ConnectTimeout

	var conn *gorm.DB
	attempt := 0
	operation := func() error {
		attempt++
		conn, err = gorm.Open(dialector, &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent), // Ledger code logs through logrus
			TranslateError: true,                                  // Surface gorm.ErrDuplicatedKey
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"driver":  cfg.Driver, // Database driver
				"attempt": attempt,    // Attempt number
				"error":   err.Error(),
			}).Warn("failed to connect to database, retrying")
			return err
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return backoff.Permanent(err)
		}
		return sqlDB.PingContext(ctx)
	}

	if err := backoff.Retry(operation, backoff.WithContext(policy, ctx)); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Driver, err)
	}
	logrus.WithField("driver", cfg.Driver).Info("Connected to database")
	return conn, nil
}

// Migrate performs automatic migration for the database schema
func Migrate(conn *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := conn.AutoMigrate(&domain.User{}, &domain.Token{}, &domain.Preference{}, &domain.Holding{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}

// Close releases the underlying connection pool
func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
