package models

import (
	"time"
)

// Notification mencatat setiap percobaan pengiriman SMS/email reservasi,
// termasuk yang gagal (best-effort, tidak pernah membatalkan booking).
type Notification struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReservationID *uint     `gorm:"index" json:"reservation_id,omitempty"`
	Channel       string    `gorm:"type:varchar(10);not null" json:"channel"` // sms, email
	Recipient     string    `gorm:"type:varchar(255);not null" json:"recipient"`
	Message       string    `gorm:"type:text;not null" json:"message"`
	Sent          bool      `gorm:"not null;default:false" json:"sent"`
	Error         string    `gorm:"type:text" json:"error,omitempty"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}
