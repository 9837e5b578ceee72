package database

import (
	"time"

	"github.com/yeremiapane/reservation-app/models"
	"gorm.io/gorm"
)

// RecordChange menulis satu baris ke feed db_changes. Di MySQL feed ini diisi
// trigger (lihat migrations/triggers.sql); di SQLite (dev/test) service layer
// memanggil fungsi ini langsung setelah menulis.
func RecordChange(db *gorm.DB, tableName string, recordID uint, action string) {
	if db.Dialector.Name() == "mysql" {
		// Trigger sudah mencatat perubahan
		return
	}
	change := models.DBChange{
		TableName:  tableName,
		RecordID:   int64(recordID),
		ActionType: action,
		ChangedAt:  time.Now(),
	}
	// Best-effort: gagal mencatat change feed tidak boleh menggagalkan write utama
	db.Create(&change)
}
