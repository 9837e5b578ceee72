package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/realtime"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// CreateTable -> menambahkan meja baru ke layout
func (tc *TableController) CreateTable(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Capacity int    `json:"capacity" binding:"required"`
		PosX     int    `json:"pos_x"`
		PosY     int    `json:"pos_y"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Capacity <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("capacity must be positive"))
		return
	}

	table := models.Table{
		Name:     req.Name,
		Capacity: req.Capacity,
		PosX:     req.PosX,
		PosY:     req.PosY,
	}

	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastMessage(realtime.Message{
		Event: realtime.EventTableCreate,
		Data: map[string]interface{}{
			"table": table,
			"stats": tc.getDashboardStats(),
		},
	})

	utils.InfoLogger.Printf("New table created: %s (capacity=%d)", table.Name, table.Capacity)
	utils.RespondJSON(c, http.StatusCreated, "Table created successfully", table)
}

// GetAllTables -> menampilkan seluruh meja
func (tc *TableController) GetAllTables(c *gin.Context) {
	var tables []models.Table
	if err := tc.DB.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// GetTableByID -> detail satu meja
func (tc *TableController) GetTableByID(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table detail", table)
}

// UpdateTable -> edit nama/kapasitas/posisi layout
func (tc *TableController) UpdateTable(c *gin.Context) {
	tableID := c.Param("table_id")
	var body struct {
		Name     *string `json:"name"`
		Capacity *int    `json:"capacity"`
		PosX     *int    `json:"pos_x"`
		PosY     *int    `json:"pos_y"`
	}

	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if body.Name != nil {
		table.Name = *body.Name
	}
	if body.Capacity != nil {
		if *body.Capacity <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("capacity must be positive"))
			return
		}
		table.Capacity = *body.Capacity
	}
	if body.PosX != nil {
		table.PosX = *body.PosX
	}
	if body.PosY != nil {
		table.PosY = *body.PosY
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastMessage(realtime.Message{
		Event: realtime.EventTableUpdate,
		Data: map[string]interface{}{
			"table": table,
			"stats": tc.getDashboardStats(),
		},
	})

	utils.InfoLogger.Printf("Table %d updated", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable -> menghapus meja; reservasinya ikut terhapus (cascade)
func (tc *TableController) DeleteTable(c *gin.Context) {
	tableID := c.Param("table_id")
	var table models.Table

	if err := tc.DB.First(&table, tableID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if err := tc.DB.Select("Reservations").Delete(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	realtime.BroadcastMessage(realtime.Message{
		Event: realtime.EventTableDelete,
		Data: map[string]interface{}{
			"table_id": table.ID,
			"stats":    tc.getDashboardStats(),
		},
	})

	utils.InfoLogger.Printf("Table %d deleted", table.ID)
	utils.RespondJSON(c, http.StatusOK, "Table deleted", gin.H{
		"id": table.ID,
	})
}

// getDashboardStats menghitung statistik untuk dashboard staff
func (tc *TableController) getDashboardStats() map[string]interface{} {
	today := time.Now().Format("2006-01-02")

	var totalTables, todayReservations, occupying int64
	tc.DB.Model(&models.Table{}).Count(&totalTables)
	tc.DB.Model(&models.Reservation{}).Where("date = ?", today).Count(&todayReservations)
	tc.DB.Model(&models.Reservation{}).
		Where("date = ? AND status IN ?", today,
			[]string{models.ReservationConfirmed, models.ReservationArrived, models.ReservationInProgress}).
		Count(&occupying)

	return map[string]interface{}{
		"tables":              totalTables,
		"reservations_today":  todayReservations,
		"occupying_today":     occupying,
		"pending_today_count": todayReservations - occupying,
	}
}
