package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/reservation-app/models"
)

func seedMenu(t *testing.T, db *gorm.DB) (models.Menu, models.Menu) {
	category := models.MenuCategory{Name: "Main Course"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	nasi := models.Menu{CategoryID: category.ID, Name: "Nasi Goreng", Price: 45000, Available: true}
	sate := models.Menu{CategoryID: category.ID, Name: "Sate Ayam", Price: 35000, Available: true}
	db.Create(&nasi)
	db.Create(&sate)
	return nasi, sate
}

func tableOrderRequest(tableID uint, items ...OrderItemRequest) OrderRequest {
	return OrderRequest{TableID: &tableID, Items: items}
}

func TestCreateOrderSnapshotsPrices(t *testing.T) {
	db := setupBookingTestDB(t)
	db.Create(&models.Table{Name: "T1", Capacity: 4})
	nasi, sate := seedMenu(t, db)
	svc := NewOrderService(db)

	order, err := svc.CreateOrder(tableOrderRequest(1,
		OrderItemRequest{MenuID: nasi.ID, Quantity: 2},
		OrderItemRequest{MenuID: sate.ID, Quantity: 1, Notes: "tanpa kacang"},
	))
	assert.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, float64(2*45000+35000), order.TotalAmount)
	assert.Len(t, order.OrderItems, 2)

	// Harga menu naik setelah order dibuat; snapshot dan total tidak berubah
	db.Model(&models.Menu{}).Where("id = ?", nasi.ID).Update("price", 60000)

	var reloaded models.Order
	assert.NoError(t, db.Preload("OrderItems").First(&reloaded, order.ID).Error)
	assert.Equal(t, float64(2*45000+35000), reloaded.TotalAmount)
	for _, item := range reloaded.OrderItems {
		if item.MenuID == nasi.ID {
			assert.Equal(t, float64(45000), item.Price)
		}
	}
}

func TestCreateOrderValidation(t *testing.T) {
	db := setupBookingTestDB(t)
	nasi, _ := seedMenu(t, db)
	svc := NewOrderService(db)

	var validation *ValidationError

	// Tanpa reservation_id maupun table_id
	_, err := svc.CreateOrder(OrderRequest{Items: []OrderItemRequest{{MenuID: nasi.ID, Quantity: 1}}})
	assert.True(t, errors.As(err, &validation))

	// Items kosong
	_, err = svc.CreateOrder(tableOrderRequest(1))
	assert.True(t, errors.As(err, &validation))

	// Quantity nol
	_, err = svc.CreateOrder(tableOrderRequest(1, OrderItemRequest{MenuID: nasi.ID, Quantity: 0}))
	assert.True(t, errors.As(err, &validation))

	// Menu tidak ada
	_, err = svc.CreateOrder(tableOrderRequest(1, OrderItemRequest{MenuID: 9999, Quantity: 1}))
	assert.True(t, errors.As(err, &validation))

	// Transaksi di-rollback: tidak ada order setengah jadi yang tersimpan
	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateOrderRejectsUnavailableMenu(t *testing.T) {
	db := setupBookingTestDB(t)
	nasi, _ := seedMenu(t, db)
	svc := NewOrderService(db)

	db.Model(&models.Menu{}).Where("id = ?", nasi.ID).Update("available", false)

	_, err := svc.CreateOrder(tableOrderRequest(1, OrderItemRequest{MenuID: nasi.ID, Quantity: 1}))
	var validation *ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	db := setupBookingTestDB(t)
	nasi, _ := seedMenu(t, db)
	svc := NewOrderService(db)

	order, err := svc.CreateOrder(tableOrderRequest(1, OrderItemRequest{MenuID: nasi.ID, Quantity: 1}))
	assert.NoError(t, err)

	// Lompat langsung pending -> preparing tidak boleh
	_, err = svc.UpdateOrderStatus(order.ID, models.OrderPreparing)
	var validation *ValidationError
	assert.True(t, errors.As(err, &validation))

	// Jalur normal pending -> confirmed -> preparing -> ready -> served
	for _, next := range []string{
		models.OrderConfirmed, models.OrderPreparing, models.OrderReady, models.OrderServed,
	} {
		updated, err := svc.UpdateOrderStatus(order.ID, next)
		assert.NoError(t, err)
		assert.Equal(t, next, updated.Status)
	}

	// Served bersifat final
	_, err = svc.UpdateOrderStatus(order.ID, models.OrderCancelled)
	assert.True(t, errors.As(err, &validation))
}

func TestUpdateOrderStatusCancelBeforeServed(t *testing.T) {
	db := setupBookingTestDB(t)
	nasi, _ := seedMenu(t, db)
	svc := NewOrderService(db)

	order, err := svc.CreateOrder(tableOrderRequest(1, OrderItemRequest{MenuID: nasi.ID, Quantity: 1}))
	assert.NoError(t, err)

	_, err = svc.UpdateOrderStatus(order.ID, models.OrderConfirmed)
	assert.NoError(t, err)

	cancelled, err := svc.UpdateOrderStatus(order.ID, models.OrderCancelled)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)

	// Cancelled juga final
	var validation *ValidationError
	_, err = svc.UpdateOrderStatus(order.ID, models.OrderConfirmed)
	assert.True(t, errors.As(err, &validation))
}

// Dua staff menekan tombol bersamaan: yang kalah guard compare-and-swap
// mendapat ConflictError dengan pesan order, bukan pesan reservasi.
func TestUpdateOrderStatusLostRace(t *testing.T) {
	db := setupBookingTestDB(t)
	nasi, _ := seedMenu(t, db)
	svc := NewOrderService(db)

	order, err := svc.CreateOrder(tableOrderRequest(1, OrderItemRequest{MenuID: nasi.ID, Quantity: 1}))
	assert.NoError(t, err)

	// Staff lain memajukan status di antara baca dan tulis
	stolen := false
	err = db.Callback().Update().Before("gorm:update").Register("advance_first", func(tx *gorm.DB) {
		if stolen || tx.Statement.Table != "orders" {
			return
		}
		stolen = true
		tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE orders SET status = ? WHERE id = ?", models.OrderConfirmed, order.ID)
	})
	assert.NoError(t, err)
	defer db.Callback().Update().Remove("advance_first")

	_, err = svc.UpdateOrderStatus(order.ID, models.OrderConfirmed)
	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))
	assert.Contains(t, err.Error(), "order")
	assert.NotContains(t, err.Error(), "table")
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	db := setupBookingTestDB(t)
	svc := NewOrderService(db)

	_, err := svc.UpdateOrderStatus(9999, models.OrderConfirmed)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
