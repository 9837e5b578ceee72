package models

import "time"

// Status dapur untuk order. Cancelled hanya boleh sebelum served.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderServed    = "served"
	OrderCancelled = "cancelled"
)

type Order struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	ReservationID *uint        `gorm:"index" json:"reservation_id,omitempty"`
	Reservation   *Reservation `gorm:"foreignKey:ReservationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"reservation,omitempty"`
	TableID       *uint        `gorm:"index" json:"table_id,omitempty"`
	Table         *Table       `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"table,omitempty"`
	Status        string       `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TotalAmount   float64      `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	Notes         string       `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"not null" json:"updated_at"`
	OrderItems    []OrderItem  `gorm:"foreignKey:OrderID" json:"order_items"`
}
