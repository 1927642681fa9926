package db

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the Postgres connection used by the whole service.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}
