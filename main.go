package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/yeremiapane/reservation-app/config"
	"github.com/yeremiapane/reservation-app/database"
	"github.com/yeremiapane/reservation-app/middlewares"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/router"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

func init() {
	// Load .env di awal sebelum apapun
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	utils.InitLogger()
}

func main() {
	// Initialize DB
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	// Simpan koneksi database untuk dipakai lintas package
	utils.InitDB(db)

	// Set gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Rate limiter global per IP
	rateLimiter := middlewares.NewRateLimiter(50, 1)

	// Change monitor -> broadcast perubahan reservasi/order/meja ke websocket
	monitor := services.NewChangeMonitor(db)
	monitor.Interval = 500 * time.Millisecond
	monitor.Start()
	defer monitor.Stop()

	// Setup router
	r := router.SetupRouter(db)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	// Run server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.Reservation{},
		&models.MenuCategory{},
		&models.Menu{},
		&models.Order{},
		&models.OrderItem{},
		&models.RestaurantSetting{},
		&models.Notification{},
		&models.DBChange{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	// Pasang trigger change-feed (MySQL); di SQLite akan dicatat dan dilewati
	if err := database.ExecuteTriggers(db); err != nil {
		utils.ErrorLogger.Printf("Error setting up triggers: %v", err)
	}

	seedDefaultSettings(db)
}

// seedDefaultSettings mengisi baris setting yang belum ada dengan default.
func seedDefaultSettings(db *gorm.DB) {
	defaults := []models.RestaurantSetting{
		{Name: models.SettingDefaultDuration, Value: "2", ValueType: "int", Description: "Default reservation duration in hours"},
		{Name: models.SettingDefaultBuffer, Value: "15", ValueType: "int", Description: "Cleaning/turnover buffer in minutes before and after each reservation"},
		{Name: models.SettingMaxAdvanceDays, Value: "60", ValueType: "int", Description: "How far ahead reservations can be made, in days"},
		{Name: models.SettingMinAdvanceHours, Value: "1", ValueType: "int", Description: "Minimum notice for a reservation, in hours"},
	}

	for _, setting := range defaults {
		var existing models.RestaurantSetting
		if err := db.Where("name = ?", setting.Name).First(&existing).Error; err == gorm.ErrRecordNotFound {
			db.Create(&setting)
		}
	}
}
