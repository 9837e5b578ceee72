package models

import "time"

// Status lifecycle reservasi. Hanya status "occupying" yang memblokir meja
// pada perhitungan availability: pending adalah provisional hold (tidak
// memblokir), completed/cancelled adalah terminal.
const (
	ReservationPending    = "pending"
	ReservationConfirmed  = "confirmed"
	ReservationArrived    = "arrived"
	ReservationInProgress = "in_progress"
	ReservationCompleted  = "completed"
	ReservationCancelled  = "cancelled"
)

// Source reservasi: self-service masuk sebagai pending, staff langsung confirmed.
const (
	SourceSelfService = "self_service"
	SourceStaff       = "staff"
)

type Reservation struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Code          string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	TableID       uint      `gorm:"not null;index" json:"table_id"`
	Table         Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"table"`
	CustomerName  string    `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail string    `gorm:"type:varchar(255)" json:"customer_email,omitempty"`
	CustomerPhone string    `gorm:"type:varchar(50)" json:"customer_phone,omitempty"`
	PartySize     int       `gorm:"not null" json:"party_size"`
	Date          string    `gorm:"type:varchar(10);not null;index" json:"date"` // YYYY-MM-DD
	StartTime     string    `gorm:"type:varchar(5);not null" json:"start_time"`  // HH:MM
	DurationHours int       `gorm:"not null;default:2" json:"duration_hours"`
	BufferMinutes int       `gorm:"not null;default:15" json:"buffer_minutes"`
	Status        string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Source        string    `gorm:"type:varchar(20);not null;default:'self_service'" json:"source"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`

	Orders []Order `gorm:"foreignKey:ReservationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// ValidStatus memeriksa apakah status termasuk dalam set yang didefinisikan.
func ValidStatus(status string) bool {
	switch status {
	case ReservationPending, ReservationConfirmed, ReservationArrived,
		ReservationInProgress, ReservationCompleted, ReservationCancelled:
		return true
	}
	return false
}

// IsOccupying -> true jika reservasi memblokir meja pada jendela busy-nya.
func (r *Reservation) IsOccupying() bool {
	switch r.Status {
	case ReservationConfirmed, ReservationArrived, ReservationInProgress:
		return true
	}
	return false
}
