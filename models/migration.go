package models

import (
	"log"

	"github.com/campusworks/assets_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Resource{},
		&AuditRecord{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
