package database

import (
	"fmt"
	"strings"

	"github.com/sangkips/caisse-api/internal/config"
	"github.com/sangkips/caisse-api/internal/domain/entity"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the database selected by cfg.Driver.
func Open(cfg *config.DatabaseConfig, debug bool, log *logrus.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres", "":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		})
	case "mysql":
		dialector = mysql.Open(cfg.DSN())
	case "sqlite":
		return NewSQLiteDB(cfg.DSN(), debug)
	default:
		return nil, fmt.Errorf("unsupported database driver %q (use postgres, mysql or sqlite)", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig(debug))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.WithField("driver", dialector.Name()).Info("Connected to database")
	return db, nil
}

// NewSQLiteDB opens a SQLite database. SQLite allows a single writer, so the
// pool is limited to one connection and transactions queue behind each other.
// dsn may be a file path or e.g. "file:test?mode=memory&cache=shared".
func NewSQLiteDB(dsn string, debug bool) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(debug))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func gormConfig(debug bool) *gorm.Config {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}
}

func models() []interface{} {
	return []interface{}{
		// Restaurant and menu
		&entity.Restaurant{},
		&entity.Category{},
		&entity.Group{},
		&entity.GroupOption{},
		&entity.Item{},

		// Orders
		&entity.Order{},
		&entity.OrderLine{},

		// System entities
		&entity.StoredResponse{},
	}
}

// mysqlUUIDType stores ids as their 36-character text form, which is what
// uuid.UUID writes and scans.
const mysqlUUIDType = "char(36)"

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	if err := adaptColumnTypes(db, models()...); err != nil {
		return fmt.Errorf("failed to prepare migrations: %w", err)
	}
	if err := db.AutoMigrate(models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// adaptColumnTypes rewrites the uuid column type for dialects that lack it.
// gorm caches parsed schemas per DB, so the change applies to the migrator.
func adaptColumnTypes(db *gorm.DB, values ...interface{}) error {
	if db.Dialector.Name() != "mysql" {
		return nil
	}
	for _, value := range values {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(value); err != nil {
			return err
		}
		for _, field := range stmt.Schema.Fields {
			if strings.EqualFold(string(field.DataType), "uuid") {
				field.DataType = mysqlUUIDType
			}
		}
	}
	return nil
}
