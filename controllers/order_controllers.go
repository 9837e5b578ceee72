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

type OrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewOrderController(db *gorm.DB, orders *services.OrderService) *OrderController {
	return &OrderController{DB: db, Orders: orders}
}

// CreateOrder -> intake order telepon/table-side oleh staff
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.CreateOrder(req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created successfully", gin.H{
		"order":           order,
		"total_formatted": utils.FormatCurrency(order.TotalAmount),
	})
}

// GetAllOrders -> list order, bisa difilter status
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	query := oc.DB.Preload("OrderItems.Menu").Preload("Reservation").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> detail satu order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID := c.Param("order_id")
	var order models.Order
	if err := oc.DB.Preload("OrderItems.Menu").Preload("Reservation").First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus -> memajukan status dapur
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	idParam := c.Param("order_id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.UpdateOrderStatus(uint(id), body.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// GetKitchenQueue -> antrian dapur: order aktif urut waktu masuk
func (oc *OrderController) GetKitchenQueue(c *gin.Context) {
	var orders []models.Order
	if err := oc.DB.Preload("OrderItems.Menu").
		Where("status IN ?", []string{models.OrderConfirmed, models.OrderPreparing, models.OrderReady}).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen queue", orders)
}
