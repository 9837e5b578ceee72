package services

import (
	"log"
	"time"

	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/realtime"
	"gorm.io/gorm"
)

// ChangeMonitor mem-poll feed db_changes dan menyiarkan perubahan
// reservasi/order/meja ke client websocket.
type ChangeMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
}

func NewChangeMonitor(db *gorm.DB) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: 1 * time.Second,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	var changes []models.DBChange

	tx := cm.DB.Begin()

	if err := tx.Where("processed = ?", false).
		Order("changed_at ASC").
		Limit(100).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		log.Printf("Error fetching changes: %v", err)
		return
	}

	for _, change := range changes {
		switch change.TableName {
		case "reservations":
			cm.processReservationChange(change)
		case "orders":
			cm.processOrderChange(change)
		case "tables":
			cm.processTableChange(change)
		}

		if err := tx.Model(&models.DBChange{}).
			Where("id = ?", change.ID).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			log.Printf("Error marking change as processed: %v", err)
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Printf("Error committing transaction: %v", err)
		tx.Rollback()
	}
}

func (cm *ChangeMonitor) processReservationChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		realtime.BroadcastReservationDelete(uint(change.RecordID))
		return
	}

	var reservation models.Reservation
	if err := cm.DB.Preload("Table").First(&reservation, change.RecordID).Error; err != nil {
		log.Printf("Error fetching reservation: %v", err)
		return
	}

	switch change.ActionType {
	case "INSERT":
		realtime.BroadcastReservationCreate(reservation)
	case "UPDATE":
		realtime.BroadcastReservationUpdate(reservation)
	}
}

func (cm *ChangeMonitor) processOrderChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		return
	}

	var order models.Order
	if err := cm.DB.Preload("OrderItems.Menu").First(&order, change.RecordID).Error; err != nil {
		log.Printf("Error fetching order: %v", err)
		return
	}
	realtime.BroadcastOrderUpdate(order)
}

func (cm *ChangeMonitor) processTableChange(change models.DBChange) {
	if change.ActionType == "DELETE" {
		realtime.BroadcastTableDelete(uint(change.RecordID))
		return
	}

	var table models.Table
	if err := cm.DB.First(&table, change.RecordID).Error; err != nil {
		log.Printf("Error fetching table: %v", err)
		return
	}

	switch change.ActionType {
	case "INSERT":
		realtime.BroadcastTableCreate(table)
	case "UPDATE":
		realtime.BroadcastTableUpdate(table)
	}
}
