// Package db contains everything related to opening the backing store
package db

import (
	"fmt"

	"wrenlabs/board-api/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func New() (*gorm.DB, error) {
	var dial gorm.Dialector

	switch viper.GetString("db.driver") {
	case "postgres":
		dial = postgres.Open(viper.GetString("db.dsn"))
	default:
		dial = sqlite.Open(viper.GetString("db.path"))
	}

	conn, err := gorm.Open(dial)
	if err != nil {
		return nil, fmt.Errorf("failed to open database, %w", err)
	}

	if err := Migrate(conn); err != nil {
		return nil, err
	}

	return conn, nil
}

// Migrate applies the schema. Split out of New so tests can run it
// against their own throwaway databases
func Migrate(conn *gorm.DB) error {
	// SQLite won't enforce the ON DELETE CASCADE constraints without this
	if conn.Dialector.Name() == "sqlite" {
		if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return fmt.Errorf("failed to enable foreign keys, %w", err)
		}
	}

	err := conn.AutoMigrate(model.Account{}, model.Todo{}, model.Post{}, model.Attachment{})
	if err != nil {
		return fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return nil
}
