package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"path/filepath"

	migrateV4 "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratePostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migrateSQLite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"

	"github.com/yourusername/automatismes-api/internal/config"
)

// MigrateDB применяет SQL-миграции из каталога migrationsPath (например, migrations/postgres)
func MigrateDB(db *gorm.DB, driverName, migrationsPath string) error {
	log.Printf("Запуск применения миграций базы данных (%s, %s)...", driverName, migrationsPath)

	m, err := newMigrator(db, driverName, migrationsPath)
	if err != nil {
		return err
	}

	// Применяем миграции "вверх"
	err = m.Up()
	switch {
	case errors.Is(err, migrateV4.ErrNoChange):
		log.Println("Изменений в миграциях не найдено, база данных уже актуальна.")
	case err != nil:
		log.Printf("Ошибка применения миграций: %v", err)
		return fmt.Errorf("ошибка применения миграций 'up': %w", err)
	default:
		log.Println("Миграции успешно применены.")
	}

	version, dirty, err := m.Version()
	if err == nil {
		log.Printf("Версия схемы: %d (dirty=%t)", version, dirty)
	}
	return nil
}

func newMigrator(db *gorm.DB, driverName, migrationsPath string) (*migrateV4.Migrate, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("не удалось получить *sql.DB из *gorm.DB: %w", err)
	}
	return NewMigrator(sqlDB, driverName, migrationsPath)
}

// NewMigrator создает migrate.Migrate поверх готового соединения (gorm или lib/pq)
func NewMigrator(sqlDB *sql.DB, driverName, migrationsPath string) (*migrateV4.Migrate, error) {
	// Убедимся, что подключение к БД активно
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("не удалось проверить подключение к БД перед миграцией: %w", err)
	}

	var (
		driver database.Driver
		err    error
	)
	switch driverName {
	case config.DriverPostgres:
		driver, err = migratePostgres.WithInstance(sqlDB, &migratePostgres.Config{})
	case config.DriverSQLite:
		driver, err = migrateSQLite.WithInstance(sqlDB, &migrateSQLite.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driverName)
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось создать драйвер %s для migrate: %w", driverName, err)
	}

	abs, err := filepath.Abs(migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("некорректный путь к миграциям %s: %w", migrationsPath, err)
	}

	m, err := migrateV4.NewWithDatabaseInstance("file://"+filepath.ToSlash(abs), driverName, driver)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать экземпляр migrate: %w", err)
	}
	return m, nil
}
