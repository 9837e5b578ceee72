package database

import (
	"os"
	"strings"

	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

// ExecuteTriggers memasang trigger MySQL yang mengisi feed db_changes untuk
// reservations, orders, dan tables. Di SQLite statement akan gagal dan hanya
// dicatat; change feed lalu diisi lewat RecordChange.
func ExecuteTriggers(db *gorm.DB) error {
	triggerSQL, err := os.ReadFile("database/migrations/triggers.sql")
	if err != nil {
		return err
	}

	// File memakai blok DELIMITER // gaya MySQL
	statements := strings.Split(string(triggerSQL), "DELIMITER")

	for _, block := range statements {
		if strings.TrimSpace(block) == "" {
			continue
		}

		for _, stmt := range strings.Split(block, "//") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" || stmt == ";" {
				continue
			}

			if err := db.Exec(stmt).Error; err != nil {
				utils.ErrorLogger.Printf("Error executing trigger: %v\nStatement: %s", err, stmt)
				continue
			}
		}
	}

	utils.InfoLogger.Println("Change-feed triggers installed")
	return nil
}
