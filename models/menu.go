package models

import "time"

type Menu struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	CategoryID  uint         `gorm:"not null" json:"category_id"`
	Category    MenuCategory `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Price       float64      `gorm:"type:decimal(10,2);not null" json:"price"`
	Vegetarian  bool         `gorm:"not null;default:false" json:"vegetarian"`
	Vegan       bool         `gorm:"not null;default:false" json:"vegan"`
	GlutenFree  bool         `gorm:"not null;default:false" json:"gluten_free"`
	PrepMinutes int          `gorm:"not null;default:15" json:"prep_minutes"`
	Allergens   string       `gorm:"type:varchar(255)" json:"allergens"`
	// Tanpa tag default: gorm membuang nilai zero (false) dari INSERT saat
	// ada default kolom, sehingga item tidak pernah bisa dibuat unavailable.
	// Default available=true diisi di application layer (CreateMenu).
	Available   bool         `gorm:"not null" json:"available"`
	SortOrder   int          `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}
