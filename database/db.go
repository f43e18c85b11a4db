package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recipe-analysis/models"
)

var DB *gorm.DB

// InitDB opens the run log. The default DSN is an in-memory database, so
// the log lives only as long as the process.
func InitDB(dsn string) error {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	// A single connection keeps shared-cache memory databases free of
	// table-lock errors.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.AnalysisRun{}); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	DB = db
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// Close releases the connection pool.
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
