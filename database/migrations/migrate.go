package migrations

import (
	"go-knowledge-center/internal/database"
	"go-knowledge-center/internal/models"
)

func Migrate() error {
	db := database.GetDB()

	// Auto migrate tables
	return db.AutoMigrate(
		&models.Folder{},
		&models.Source{},
	)
}
