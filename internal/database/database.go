package database

import (
	"fmt"

	"github.com/tumbluv/tumbluv-api/internal/config"
	"github.com/tumbluv/tumbluv-api/internal/logger"
	"github.com/tumbluv/tumbluv-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Dialector picks the GORM driver named by DB_DRIVER.
func Dialector(cfg config.Database) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.Name,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			cfg.Host,
			cfg.Port,
			cfg.User,
			cfg.Password,
			cfg.Name,
		)
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.Path), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func Connect(cfg *config.Config) error {
	dialector, err := Dialector(cfg.DB)
	if err != nil {
		return err
	}

	logLevel := gormlogger.Silent
	if cfg.GinMode == config.ModeDebug {
		logLevel = gormlogger.Info
	}

	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logger.New("Database").Info("database connection established", "driver", cfg.DB.Driver)
	return nil
}

func Migrate() error {
	return MigrateDatabase(DB)
}

// MigrateDatabase creates or updates every table and then the query indexes.
func MigrateDatabase(db *gorm.DB) error {
	log := logger.New("Database")
	log.Info("running database migrations")

	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
