package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/controllers"
	"github.com/yeremiapane/reservation-app/middlewares"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/services"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// Settings dibaca dan di-parse sekali; engine/writer menerima struct
	// bertipe, bukan baris key/value mentah
	settings, err := models.LoadBookingSettings(db)
	if err != nil {
		utils.ErrorLogger.Printf("Error loading booking settings, using defaults: %v", err)
	}

	notifier := services.NewNotifierFromEnv(db)
	bookingSvc := services.NewBookingService(db, settings, notifier)
	orderSvc := services.NewOrderService(db)

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	tableCtrl := controllers.NewTableController(db)
	reservationCtrl := controllers.NewReservationController(db, bookingSvc)
	categoryCtrl := controllers.NewMenuCategoryController(db)
	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db, orderSvc)
	settingCtrl := controllers.NewSettingController(db, bookingSvc)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Rate limiter ketat untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// -- CUSTOMER (tanpa auth) --
	r.GET("/availability", reservationCtrl.CheckAvailability)
	r.POST("/reservations", reservationCtrl.CreateReservation)
	r.GET("/reservations/by-code/:code", reservationCtrl.GetReservationByCode)

	r.GET("/tables", tableCtrl.GetAllTables)
	r.GET("/categories", categoryCtrl.GetAllCategories)
	r.GET("/menus", menuCtrl.GetAllMenus)
	r.GET("/menus/by-category", menuCtrl.GetMenuByCategory)

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)
	auth.GET("/users", userCtrl.GetAllUsers)
	auth.POST("/logout", userCtrl.Logout)

	// RESERVATIONS (staff/admin)
	auth.GET("/reservations", reservationCtrl.GetAllReservations)
	auth.POST("/reservations", reservationCtrl.CreateStaffReservation)
	auth.GET("/reservations/:reservation_id", reservationCtrl.GetReservationByID)
	auth.PATCH("/reservations/:reservation_id", reservationCtrl.UpdateReservation)
	auth.PATCH("/reservations/:reservation_id/status", reservationCtrl.UpdateReservationStatus)
	auth.DELETE("/reservations/:reservation_id", reservationCtrl.DeleteReservation)

	// TABLES (staff/admin)
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.POST("/tables", tableCtrl.CreateTable)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
	auth.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	auth.DELETE("/tables/:table_id", tableCtrl.DeleteTable)

	// MENU CATEGORIES (staff/admin)
	auth.POST("/categories", categoryCtrl.CreateCategory)
	auth.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
	auth.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

	// MENUS (staff/admin)
	auth.GET("/menus", menuCtrl.GetAllMenus)
	auth.POST("/menus", menuCtrl.CreateMenu)
	auth.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
	auth.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
	auth.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

	// ORDERS (staff/admin) - intake telepon & table-side
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.POST("/orders", orderCtrl.CreateOrder)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)

	// KITCHEN
	auth.GET("/kitchen/queue", orderCtrl.GetKitchenQueue)

	// SETTINGS (staff/admin)
	auth.GET("/settings", settingCtrl.GetAllSettings)
	auth.PUT("/settings", settingCtrl.UpsertSetting)
	auth.GET("/settings/booking", settingCtrl.GetBookingSettings)

	// WebSocket endpoint dengan auth token di query
	wsGroup := r.Group("/ws")
	wsGroup.Use(middlewares.WebSocketAuthMiddleware())
	{
		wsGroup.GET("/:role", controllers.RealtimeHandler)
	}

	return r
}
