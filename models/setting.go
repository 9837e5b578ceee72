package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// RestaurantSetting adalah baris konfigurasi key/value dengan type tag.
// Baris ini hanya di-parse SEKALI di LoadBookingSettings; engine dan booking
// service menerima BookingSettings yang sudah bertipe, tidak pernah membaca
// settings mentah sendiri.
type RestaurantSetting struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Value       string    `gorm:"type:varchar(255);not null" json:"value"`
	ValueType   string    `gorm:"type:varchar(20);not null;default:'string'" json:"value_type"` // int, string, hours
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// Nama setting yang dikenal.
const (
	SettingDefaultDuration = "default_reservation_duration"
	SettingDefaultBuffer   = "default_buffer_minutes"
	SettingMaxAdvanceDays  = "max_advance_booking_days"
	SettingMinAdvanceHours = "min_advance_booking_hours"
)

// OpeningHours satu hari, format "HH:MM-HH:MM". Kosong berarti tutup.
type OpeningHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// BookingSettings adalah bentuk bertipe dari baris settings.
type BookingSettings struct {
	DefaultDurationHours int
	DefaultBufferMinutes int
	MaxAdvanceDays       int
	MinAdvanceHours      int
	OpeningHours         map[time.Weekday]OpeningHours
}

// DefaultBookingSettings dipakai saat baris setting belum ada.
func DefaultBookingSettings() BookingSettings {
	hours := make(map[time.Weekday]OpeningHours)
	for d := time.Sunday; d <= time.Saturday; d++ {
		hours[d] = OpeningHours{Open: "11:00", Close: "22:00"}
	}
	return BookingSettings{
		DefaultDurationHours: 2,
		DefaultBufferMinutes: 15,
		MaxAdvanceDays:       60,
		MinAdvanceHours:      1,
		OpeningHours:         hours,
	}
}

var weekdaySettingNames = map[string]time.Weekday{
	"opening_hours_sunday":    time.Sunday,
	"opening_hours_monday":    time.Monday,
	"opening_hours_tuesday":   time.Tuesday,
	"opening_hours_wednesday": time.Wednesday,
	"opening_hours_thursday":  time.Thursday,
	"opening_hours_friday":    time.Friday,
	"opening_hours_saturday":  time.Saturday,
}

// LoadBookingSettings membaca seluruh baris setting dan mengembalikan struct
// bertipe. Baris yang tidak dikenal diabaikan, baris rusak memakai default.
func LoadBookingSettings(db *gorm.DB) (BookingSettings, error) {
	settings := DefaultBookingSettings()

	var rows []RestaurantSetting
	if err := db.Find(&rows).Error; err != nil {
		return settings, err
	}

	for _, row := range rows {
		if day, ok := weekdaySettingNames[row.Name]; ok {
			open, close, err := parseHoursRange(row.Value)
			if err != nil {
				continue
			}
			settings.OpeningHours[day] = OpeningHours{Open: open, Close: close}
			continue
		}

		n, err := strconv.Atoi(row.Value)
		if err != nil {
			continue
		}
		switch row.Name {
		case SettingDefaultDuration:
			if n > 0 {
				settings.DefaultDurationHours = n
			}
		case SettingDefaultBuffer:
			if n >= 0 {
				settings.DefaultBufferMinutes = n
			}
		case SettingMaxAdvanceDays:
			if n > 0 {
				settings.MaxAdvanceDays = n
			}
		case SettingMinAdvanceHours:
			if n >= 0 {
				settings.MinAdvanceHours = n
			}
		}
	}

	return settings, nil
}

func parseHoursRange(value string) (string, string, error) {
	parts := strings.SplitN(value, "-", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid opening hours %q", value)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}
