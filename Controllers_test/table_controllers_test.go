package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/reservation-app/controllers"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
)

// setupTestDBForTables menggunakan SQLite in-memory khusus untuk TableController
func setupTestDBForTables(name string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(&models.Table{}, &models.Reservation{}, &models.Order{}, &models.OrderItem{})
	if err != nil {
		panic(err)
	}
	return db
}

func setupTableRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	tableCtrl := controllers.NewTableController(db)
	router.GET("/tables", tableCtrl.GetAllTables)
	router.POST("/tables", tableCtrl.CreateTable)
	router.GET("/tables/:table_id", tableCtrl.GetTableByID)
	router.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	router.DELETE("/tables/:table_id", tableCtrl.DeleteTable)
	return router
}

func TestGetAllTables(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables("tables_list")

	db.Create(&models.Table{Name: "A1", Capacity: 2})
	db.Create(&models.Table{Name: "B1", Capacity: 6})

	router := setupTableRouter(db)
	req, err := http.NewRequest("GET", "/tables", nil)
	assert.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "List of tables", response["message"])

	data := response["data"].([]interface{})
	assert.Len(t, data, 2)
}

func TestCreateTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables("tables_create")
	router := setupTableRouter(db)

	payload := map[string]interface{}{"name": "C1", "capacity": 4, "pos_x": 10, "pos_y": 20}
	payloadBytes, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/tables", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Table created successfully", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "C1", data["name"])
	assert.Equal(t, float64(4), data["capacity"])

	// Kapasitas nol ditolak
	payload["capacity"] = 0
	payloadBytes, _ = json.Marshal(payload)
	req, _ = http.NewRequest("POST", "/tables", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTable(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables("tables_update")

	table := models.Table{Name: "D1", Capacity: 2}
	db.Create(&table)

	router := setupTableRouter(db)

	payload := map[string]interface{}{"capacity": 6}
	payloadBytes, _ := json.Marshal(payload)
	url := "/tables/" + strconv.Itoa(int(table.ID))
	req, _ := http.NewRequest("PATCH", url, bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "Table updated", response["message"])
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(6), data["capacity"])
	// Field yang tidak dikirim tidak berubah
	assert.Equal(t, "D1", data["name"])
}

func TestDeleteTableCascadesReservations(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForTables("tables_delete")

	table := models.Table{Name: "E1", Capacity: 4}
	db.Create(&table)
	db.Create(&models.Reservation{
		Code: "res-cascade", TableID: table.ID, CustomerName: "Budi",
		PartySize: 2, Date: "2026-10-01", StartTime: "19:00",
		DurationHours: 2, BufferMinutes: 15, Status: models.ReservationConfirmed,
		Source: models.SourceStaff,
	})

	router := setupTableRouter(db)
	req, _ := http.NewRequest("DELETE", "/tables/"+strconv.Itoa(int(table.ID)), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var tables, reservations int64
	db.Model(&models.Table{}).Count(&tables)
	db.Model(&models.Reservation{}).Count(&reservations)
	assert.Equal(t, int64(0), tables)
	assert.Equal(t, int64(0), reservations)
}
