package database

import (
	"gorm.io/gorm"

	"github.com/Suya678/Stream/internal/domain"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
	)
}
