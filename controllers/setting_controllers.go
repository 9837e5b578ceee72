package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

type SettingController struct {
	DB      *gorm.DB
	Booking *services.BookingService
}

func NewSettingController(db *gorm.DB, booking *services.BookingService) *SettingController {
	return &SettingController{DB: db, Booking: booking}
}

// GetAllSettings -> baris settings mentah untuk layar admin
func (sc *SettingController) GetAllSettings(c *gin.Context) {
	var settings []models.RestaurantSetting
	if err := sc.DB.Order("name").Find(&settings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of settings", settings)
}

// UpsertSetting -> menulis satu baris setting lalu me-reload BookingSettings
// bertipe yang dipakai engine, supaya tidak ada parsing ad-hoc di use site.
func (sc *SettingController) UpsertSetting(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Value       string `json:"value" binding:"required"`
		ValueType   string `json:"value_type"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var setting models.RestaurantSetting
	err := sc.DB.Where("name = ?", req.Name).First(&setting).Error
	switch {
	case err == nil:
		setting.Value = req.Value
		if req.ValueType != "" {
			setting.ValueType = req.ValueType
		}
		if req.Description != "" {
			setting.Description = req.Description
		}
		err = sc.DB.Save(&setting).Error
	case err == gorm.ErrRecordNotFound:
		setting = models.RestaurantSetting{
			Name:        req.Name,
			Value:       req.Value,
			ValueType:   req.ValueType,
			Description: req.Description,
		}
		if setting.ValueType == "" {
			setting.ValueType = "string"
		}
		err = sc.DB.Create(&setting).Error
	}
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// Reload typed settings ke booking service
	reloaded, err := models.LoadBookingSettings(sc.DB)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	sc.Booking.UpdateSettings(reloaded)

	utils.InfoLogger.Printf("Setting %s updated to %q", setting.Name, setting.Value)
	utils.RespondJSON(c, http.StatusOK, "Setting saved", setting)
}

// GetBookingSettings -> bentuk bertipe yang dipakai booking flow
func (sc *SettingController) GetBookingSettings(c *gin.Context) {
	settings := sc.Booking.Settings()
	utils.RespondJSON(c, http.StatusOK, "Booking settings", gin.H{
		"default_reservation_duration": settings.DefaultDurationHours,
		"default_buffer_minutes":       settings.DefaultBufferMinutes,
		"max_advance_booking_days":     settings.MaxAdvanceDays,
		"min_advance_booking_hours":    settings.MinAdvanceHours,
		"opening_hours":                settings.OpeningHours,
	})
}
