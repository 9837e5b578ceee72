package models

import "time"

type Table struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	PosX      int       `gorm:"not null;default:0" json:"pos_x"`
	PosY      int       `gorm:"not null;default:0" json:"pos_y"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	// Reservations ikut terhapus saat meja dihapus
	Reservations []Reservation `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
