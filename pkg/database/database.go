package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/automatismes-api/internal/config"
)

// Open подключается к базе согласно database.driver
func Open(cfg config.DatabaseConfig, logLevel logger.LogLevel) (*gorm.DB, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewPostgresDB(cfg.PostgresConnectionString(), logLevel)
	case config.DriverSQLite:
		return NewSQLiteDB(cfg.SQLitePath, logLevel)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// SQLXDriverName возвращает имя драйвера для sqlx (определяет стиль плейсхолдеров)
func SQLXDriverName(driver string) string {
	if driver == config.DriverSQLite {
		return "sqlite3"
	}
	// gorm.io/driver/postgres работает поверх pgx/stdlib
	return "pgx"
}

// NewSQLX оборачивает соединение gorm в sqlx для read-моделей
func NewSQLX(gormDB *gorm.DB, driver string) (*sqlx.DB, error) {
	sqlDB, err := GetSQLDB(gormDB)
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, SQLXDriverName(driver)), nil
}
