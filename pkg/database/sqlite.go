package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlitePragmas: WAL для параллельного чтения, busy_timeout вместо немедленного SQLITE_BUSY
const sqlitePragmas = "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

// NewSQLiteDB открывает файл SQLite, создавая каталог при необходимости
func NewSQLiteDB(path string, logLevel logger.LogLevel) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create sqlite directory %s: %w", dir, err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path+sqlitePragmas), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	// Один писатель: SQLite все равно сериализует запись
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}
