package services

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/reservation-app/database"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
)

// Transisi status dapur yang diizinkan. Order yang sudah served tidak boleh
// diubah lagi; cancelled hanya sebelum served.
var orderTransitions = map[string][]string{
	models.OrderPending:   {models.OrderConfirmed, models.OrderCancelled},
	models.OrderConfirmed: {models.OrderPreparing, models.OrderCancelled},
	models.OrderPreparing: {models.OrderReady, models.OrderCancelled},
	models.OrderReady:     {models.OrderServed, models.OrderCancelled},
	models.OrderServed:    {},
	models.OrderCancelled: {},
}

func canTransition(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

// OrderItemRequest satu line item order.
type OrderItemRequest struct {
	MenuID   uint   `json:"menu_id" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
	Notes    string `json:"notes"`
}

// OrderRequest adalah intake order (telepon atau table-side). Minimal salah
// satu dari reservation_id/table_id harus diisi.
type OrderRequest struct {
	ReservationID *uint              `json:"reservation_id"`
	TableID       *uint              `json:"table_id"`
	Notes         string             `json:"notes"`
	Items         []OrderItemRequest `json:"items" binding:"required"`
}

// CreateOrder membuat order dengan snapshot harga menu saat ini; perubahan
// harga menu setelahnya tidak mengubah order.
func (s *OrderService) CreateOrder(req OrderRequest) (*models.Order, error) {
	var fields []string
	if req.ReservationID == nil && req.TableID == nil {
		fields = append(fields, "reservation_id or table_id is required")
	}
	if len(req.Items) == 0 {
		fields = append(fields, "items must not be empty")
	}
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			fields = append(fields, fmt.Sprintf("items[%d].quantity must be positive", i))
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	order := models.Order{
		ReservationID: req.ReservationID,
		TableID:       req.TableID,
		Status:        models.OrderPending,
		Notes:         req.Notes,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		var total float64
		for _, item := range req.Items {
			var menu models.Menu
			if err := tx.First(&menu, item.MenuID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ValidationError{Fields: []string{fmt.Sprintf("menu %d does not exist", item.MenuID)}}
				}
				return err
			}
			if !menu.Available {
				return &ValidationError{Fields: []string{fmt.Sprintf("menu %s is not available", menu.Name)}}
			}

			orderItem := models.OrderItem{
				OrderID:  order.ID,
				MenuID:   menu.ID,
				Price:    menu.Price, // snapshot
				Quantity: item.Quantity,
				Notes:    item.Notes,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
			total += menu.Price * float64(item.Quantity)
		}

		order.TotalAmount = total
		return tx.Model(&order).Update("total_amount", total).Error
	})
	if err != nil {
		return nil, err
	}

	database.RecordChange(s.DB, "orders", order.ID, "INSERT")
	utils.InfoLogger.Printf("Order %d created (total=%s)", order.ID, utils.FormatCurrency(order.TotalAmount))

	if err := s.DB.Preload("OrderItems.Menu").First(&order, order.ID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus memajukan status dapur dengan guard compare-and-swap:
// update hanya mengenai baris yang masih berstatus asal, sehingga dua staff
// yang menekan tombol bersamaan tidak saling menimpa.
func (s *OrderService) UpdateOrderStatus(id uint, newStatus string) (*models.Order, error) {
	var order models.Order
	if err := s.DB.First(&order, id).Error; err != nil {
		return nil, err
	}

	if !canTransition(order.Status, newStatus) {
		return nil, &ValidationError{Fields: []string{
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, newStatus),
		}}
	}

	result := s.DB.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, order.Status).
		Update("status", newStatus)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Staff lain memajukan status duluan di antara baca dan tulis
		return nil, &ConflictError{Message: fmt.Sprintf("order %d was updated by someone else, refresh and retry", id)}
	}

	database.RecordChange(s.DB, "orders", id, "UPDATE")
	utils.InfoLogger.Printf("Order %d status changed to %s", id, newStatus)

	if err := s.DB.Preload("OrderItems.Menu").First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
