package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Danibruno18/credix/config"
	"github.com/Danibruno18/credix/models"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound возвращается, когда запись не найдена или уже деактивирована
var ErrNotFound = errors.New("record not found")

// Database представляет подключение к хранилищу журнала
type Database struct {
	DB     *gorm.DB
	driver string
}

// NewDatabase создает новое подключение к базе данных согласно конфигурации
func NewDatabase(cfg *config.Config) (*Database, error) {
	// Настраиваем логгер
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	switch cfg.DB.Driver {
	case "sqlite":
		return OpenSQLite(cfg.DB.SQLitePath, &gorm.Config{Logger: newLogger})
	case "postgres":
		db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{Logger: newLogger})
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к базе данных: %w", err)
		}

		// Настраиваем пул соединений
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("ошибка получения пула соединений: %w", err)
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)

		return &Database{DB: db, driver: "postgres"}, nil
	default:
		return nil, fmt.Errorf("неизвестный драйвер базы данных: %s", cfg.DB.Driver)
	}
}

// OpenSQLite открывает SQLite базу. Используется для локального запуска и в тестах.
// SQLite допускает одного писателя, поэтому пул ограничен одним соединением.
func OpenSQLite(path string, gormCfg *gorm.Config) (*Database, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	}
	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пула соединений: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &Database{DB: db, driver: "sqlite"}, nil
}

// Close закрывает подключение к базе данных
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping проверяет доступность базы данных
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Migrate приводит схему к актуальному состоянию.
// Для PostgreSQL применяются SQL миграции, для SQLite автоматическая миграция моделей.
func (d *Database) Migrate(cfg *config.Config) error {
	if d.driver == "postgres" {
		return runMigrations(cfg)
	}
	return d.AutoMigrate()
}

// runMigrations выполняет SQL миграции из встроенной файловой системы
func runMigrations(cfg *config.Config) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("ошибка чтения миграций: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, cfg.MigrationURL())
	if err != nil {
		return fmt.Errorf("ошибка создания миграции: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("ошибка выполнения миграций: %w", err)
	}
	return nil
}

// AutoMigrate выполняет автоматическую миграцию моделей
func (d *Database) AutoMigrate() error {
	err := d.DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Transaction{},
	)
	if err != nil {
		return fmt.Errorf("ошибка автоматической миграции: %w", err)
	}
	return nil
}

// Transaction выполняет fn в одной транзакции базы данных.
// Все операции внутри fn должны использовать переданный tx.
func (d *Database) Transaction(ctx context.Context, fn func(tx *Database) error) error {
	return d.DB.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&Database{DB: gtx, driver: d.driver})
	})
}

func (d *Database) conn(ctx context.Context) *gorm.DB {
	return d.DB.WithContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
