package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/yeremiapane/reservation-app/models"
)

// Event types
const (
	EventReservationCreate = "reservation_create"
	EventReservationUpdate = "reservation_update"
	EventReservationDelete = "reservation_delete"
	EventOrderUpdate       = "order_update"
	EventKitchenUpdate     = "kitchen_update"
	EventTableCreate       = "table_create"
	EventTableUpdate       = "table_update"
	EventTableDelete       = "table_delete"
	EventStaffNotif        = "staff_notification"
	EventDashboardUpdate   = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung semua client dashboard (staff, kitchen, admin) beserta
// role-nya untuk broadcast perubahan reservasi/order/meja.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient -> menambahkan connection ke set dengan role
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastReservationCreate -> reservasi baru masuk
func BroadcastReservationCreate(res models.Reservation) {
	broadcast(Message{Event: EventReservationCreate, Data: res})
}

// BroadcastReservationUpdate -> status/field reservasi berubah
func BroadcastReservationUpdate(res models.Reservation) {
	broadcast(Message{Event: EventReservationUpdate, Data: res})
}

// BroadcastReservationDelete -> reservasi dihapus
func BroadcastReservationDelete(id uint) {
	broadcast(Message{Event: EventReservationDelete, Data: map[string]interface{}{"id": id}})
}

// BroadcastOrderUpdate -> menyiarkan update order ke semua client
func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{Event: EventOrderUpdate, Data: order})
}

// BroadcastKitchenUpdate -> update antrian dapur
func BroadcastKitchenUpdate(data interface{}) {
	broadcast(Message{Event: EventKitchenUpdate, Data: data})
}

// BroadcastTableCreate -> meja baru dibuat
func BroadcastTableCreate(table models.Table) {
	broadcast(Message{Event: EventTableCreate, Data: table})
}

// BroadcastTableUpdate -> layout/kapasitas meja berubah
func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{Event: EventTableUpdate, Data: table})
}

// BroadcastTableDelete -> meja dihapus
func BroadcastTableDelete(id uint) {
	broadcast(Message{Event: EventTableDelete, Data: map[string]interface{}{"id": id}})
}

// BroadcastStaffNotification -> notifikasi untuk staff
func BroadcastStaffNotification(message string) {
	broadcast(Message{Event: EventStaffNotif, Data: message})
}

// BroadcastDashboardUpdate -> statistik dashboard berubah
func BroadcastDashboardUpdate(data interface{}) {
	broadcast(Message{Event: EventDashboardUpdate, Data: data})
}

// BroadcastMessage -> broadcast pesan umum
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message to client: %v", err)
			continue
		}
	}
}
