package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

type ReservationController struct {
	DB      *gorm.DB
	Booking *services.BookingService
}

func NewReservationController(db *gorm.DB, booking *services.BookingService) *ReservationController {
	return &ReservationController{DB: db, Booking: booking}
}

type reservationPayload struct {
	TableID       uint   `json:"table_id"` // 0 = auto-assign
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	PartySize     int    `json:"party_size" binding:"required"`
	Date          string `json:"date" binding:"required"`
	StartTime     string `json:"start_time" binding:"required"`
	DurationHours int    `json:"duration_hours"`
	BufferMinutes int    `json:"buffer_minutes"`
	Notes         string `json:"notes"`
}

func (p reservationPayload) toRequest(source string) services.ReservationRequest {
	return services.ReservationRequest{
		TableID:       p.TableID,
		CustomerName:  p.CustomerName,
		CustomerEmail: p.CustomerEmail,
		CustomerPhone: p.CustomerPhone,
		PartySize:     p.PartySize,
		Date:          p.Date,
		StartTime:     p.StartTime,
		DurationHours: p.DurationHours,
		BufferMinutes: p.BufferMinutes,
		Notes:         p.Notes,
		Source:        source,
	}
}

// CreateReservation -> booking self-service customer, masuk sebagai pending
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	var payload reservationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Booking.CreateReservation(payload.toRequest(models.SourceSelfService))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Reservation created successfully", reservation)
}

// CreateStaffReservation -> booking yang dientri staff, langsung confirmed
func (rc *ReservationController) CreateStaffReservation(c *gin.Context) {
	var payload reservationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Booking.CreateReservation(payload.toRequest(models.SourceStaff))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Reservation created successfully", reservation)
}

// CheckAvailability -> jalur baca untuk layar pemilihan slot (read-only)
func (rc *ReservationController) CheckAvailability(c *gin.Context) {
	date := c.Query("date")
	startTime := c.Query("time")
	partySize, err := strconv.Atoi(c.DefaultQuery("party_size", "2"))
	if err != nil || partySize <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("party_size must be a positive integer"))
		return
	}
	if date == "" || startTime == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date and time are required"))
		return
	}

	result, err := rc.Booking.CheckAvailability(date, startTime, partySize)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Availability for "+date+" "+startTime, result)
}

// GetAllReservations -> list reservasi, bisa difilter date & status
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	query := rc.DB.Preload("Table").Order("date, start_time")

	if date := c.Query("date"); date != "" {
		query = query.Where("date = ?", date)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var reservations []models.Reservation
	if err := query.Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

// GetReservationByID -> detail satu reservasi
func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	id := c.Param("reservation_id")
	var reservation models.Reservation
	if err := rc.DB.Preload("Table").First(&reservation, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}

// GetReservationByCode -> lookup publik dengan confirmation code; dipakai
// customer untuk cek ulang hasil booking yang timeout sebelum retry
func (rc *ReservationController) GetReservationByCode(c *gin.Context) {
	code := c.Param("code")
	var reservation models.Reservation
	if err := rc.DB.Preload("Table").Where("code = ?", code).First(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", reservation)
}

// UpdateReservationStatus -> transisi status oleh staff
func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	idParam := c.Param("reservation_id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation id"))
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Booking.UpdateReservationStatus(uint(id), body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation status updated", reservation)
}

// UpdateReservation -> edit field non-status oleh staff
func (rc *ReservationController) UpdateReservation(c *gin.Context) {
	id := c.Param("reservation_id")

	var reservation models.Reservation
	if err := rc.DB.First(&reservation, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var body struct {
		CustomerName  *string `json:"customer_name"`
		CustomerEmail *string `json:"customer_email"`
		CustomerPhone *string `json:"customer_phone"`
		PartySize     *int    `json:"party_size"`
		Notes         *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.CustomerName != nil {
		reservation.CustomerName = *body.CustomerName
	}
	if body.CustomerEmail != nil {
		reservation.CustomerEmail = *body.CustomerEmail
	}
	if body.CustomerPhone != nil {
		reservation.CustomerPhone = *body.CustomerPhone
	}
	if body.PartySize != nil {
		if *body.PartySize <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("party_size must be positive"))
			return
		}
		reservation.PartySize = *body.PartySize
	}
	if body.Notes != nil {
		reservation.Notes = *body.Notes
	}

	if err := rc.DB.Save(&reservation).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation updated", reservation)
}

// DeleteReservation -> hard delete, orders ikut terhapus
func (rc *ReservationController) DeleteReservation(c *gin.Context) {
	idParam := c.Param("reservation_id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation id"))
		return
	}

	if err := rc.Booking.DeleteReservation(uint(id)); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Reservation %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Reservation deleted", gin.H{"id": id})
}
