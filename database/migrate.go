package database

import (
	"gorm.io/gorm"

	"github.com/yeremiapane/waffle-wala/models"
	"github.com/yeremiapane/waffle-wala/utils"
)

// Migrate creates the documents and change log tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Document{}, &models.DBChange{}); err != nil {
		return err
	}

	// Verifikasi tabel
	for _, table := range []interface{}{&models.Document{}, &models.DBChange{}} {
		if db.Migrator().HasTable(table) {
			stmt := &gorm.Statement{DB: db}
			if err := stmt.Parse(table); err == nil {
				utils.InfoLogger.Printf("Table verified: %s", stmt.Schema.Table)
			}
		}
	}
	return nil
}
