// Package db contains things related to SQLite
package db

import (
	"fmt"
	"time"

	"imagelens/image-api/model"

	"github.com/spf13/viper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func New() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(viper.GetString("db.path")), &gorm.Config{
		// Lets unique-constraint violations surface as gorm.ErrDuplicatedKey
		// instead of a driver-specific error string
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite database, %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB, %w", err)
	}

	sqlDB.SetMaxOpenConns(viper.GetInt("db.max_open"))
	sqlDB.SetMaxIdleConns(viper.GetInt("db.max_idle"))
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.AutoMigrate(model.User{}, model.Analysis{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return db, nil
}
