package core

import (
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type LogLevel int

const (
	LogLevelSilent LogLevel = iota + 1
	LogLevelError
	LogLevelWarn
	LogLevelInfo
)

// DatabaseManager owns the MySQL pool for the single school schema.
type DatabaseManager struct {
	SqlDB    *sql.DB
	gormDB   *gorm.DB
	LogLevel LogLevel
}

// New creates the pool and the GORM handle on top of it. The DSN carries
// the schema; parseTime=true is required for DATE/TIMESTAMP scanning.
func New(dsn string, maxConnection int) (*DatabaseManager, error) {
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open pool: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxConnection)
	sqlDB.SetMaxIdleConns(maxConnection)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping pool: %w", err)
	}

	dm := &DatabaseManager{SqlDB: sqlDB}

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), &gorm.Config{
		// TranslateError maps duplicate-entry violations onto
		// gorm.ErrDuplicatedKey, which the store relies on.
		TranslateError: true,
		Logger:         logger.Default.LogMode(dm.gormLogLevel()),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	dm.gormDB = db

	return dm, nil
}

func (dm *DatabaseManager) gormLogLevel() logger.LogLevel {
	switch dm.LogLevel {
	case LogLevelError:
		return logger.Error
	case LogLevelWarn:
		return logger.Warn
	case LogLevelInfo:
		return logger.Info
	default:
		return logger.Silent
	}
}

// DB returns the shared GORM handle.
func (dm *DatabaseManager) DB() *gorm.DB {
	return dm.gormDB
}

// Close closes the pool.
func (dm *DatabaseManager) Close() error {
	return dm.SqlDB.Close()
}
