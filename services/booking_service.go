package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yeremiapane/reservation-app/availability"
	"github.com/yeremiapane/reservation-app/database"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService mengorkestrasi pembuatan reservasi end-to-end. Pengecekan
// availability dan insert dilakukan di DALAM SATU transaksi dengan row lock
// pada meja, sehingga dua request bersamaan untuk meja/jam yang sama tidak
// bisa sama-sama lolos (tidak ada double-booking).
type BookingService struct {
	DB       *gorm.DB
	Notifier *Notifier

	// Now bisa diganti di test untuk memvalidasi advance window.
	Now func() time.Time

	// settings bisa di-reload oleh admin saat handler booking lain sedang
	// berjalan; akses selalu lewat Settings()/UpdateSettings. Struct yang
	// dipublikasikan tidak pernah dimutasi, reload mengganti seluruhnya.
	mu       sync.RWMutex
	settings models.BookingSettings
}

func NewBookingService(db *gorm.DB, settings models.BookingSettings, notifier *Notifier) *BookingService {
	return &BookingService{
		DB:       db,
		Notifier: notifier,
		Now:      time.Now,
		settings: settings,
	}
}

// Settings mengembalikan snapshot settings yang berlaku saat ini.
func (s *BookingService) Settings() models.BookingSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// UpdateSettings mengganti settings aktif (dipanggil setelah admin mengubah
// baris setting).
func (s *BookingService) UpdateSettings(settings models.BookingSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
}

// ReservationRequest adalah input booking. TableID 0 berarti auto-assign
// (pilih meja terkecil yang muat). Duration/Buffer 0 memakai default settings.
type ReservationRequest struct {
	TableID       uint
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	PartySize     int
	Date          string // YYYY-MM-DD
	StartTime     string // HH:MM
	DurationHours int
	BufferMinutes int
	Notes         string
	Source        string // self_service atau staff
}

func applyDefaults(req *ReservationRequest, settings models.BookingSettings) {
	if req.DurationHours == 0 {
		req.DurationHours = settings.DefaultDurationHours
	}
	if req.BufferMinutes == 0 {
		req.BufferMinutes = settings.DefaultBufferMinutes
	}
	if req.Source == "" {
		req.Source = models.SourceSelfService
	}
}

func (s *BookingService) validate(req ReservationRequest, settings models.BookingSettings) (availability.Window, error) {
	var fields []string

	if req.CustomerName == "" {
		fields = append(fields, "customer_name is required")
	}
	if req.PartySize <= 0 {
		fields = append(fields, "party_size must be positive")
	}
	if req.Source != models.SourceSelfService && req.Source != models.SourceStaff {
		fields = append(fields, "source must be self_service or staff")
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		fields = append(fields, "date must be YYYY-MM-DD")
	}

	win, err := availability.BusyWindow(req.StartTime, req.DurationHours, req.BufferMinutes)
	if err != nil {
		fields = append(fields, err.Error())
	} else if win.Start < 0 || win.End > availability.MinutesPerDay {
		// Jendela busy (termasuk buffer) harus berada dalam satu hari
		fields = append(fields, fmt.Sprintf("busy window %s crosses midnight", win))
	}

	if len(fields) > 0 {
		return availability.Window{}, &ValidationError{Fields: fields}
	}

	// Advance window dari settings
	start, _ := availability.ParseClock(req.StartTime)
	startAt := day.Add(time.Duration(start) * time.Minute)
	now := s.Now()
	if startAt.Before(now.Add(time.Duration(settings.MinAdvanceHours) * time.Hour)) {
		fields = append(fields, fmt.Sprintf("reservations require at least %d hour(s) notice", settings.MinAdvanceHours))
	}
	if startAt.After(now.AddDate(0, 0, settings.MaxAdvanceDays)) {
		fields = append(fields, fmt.Sprintf("reservations open at most %d day(s) in advance", settings.MaxAdvanceDays))
	}

	// Jam buka hari itu; jendela service (tanpa buffer) harus di dalamnya
	hours, open := settings.OpeningHours[day.Weekday()]
	if !open || hours.Open == "" {
		fields = append(fields, "restaurant is closed on "+day.Weekday().String())
	} else {
		openAt, errO := availability.ParseClock(hours.Open)
		closeAt, errC := availability.ParseClock(hours.Close)
		serviceEnd := start.Add(req.DurationHours * 60)
		if errO == nil && errC == nil && (start < openAt || serviceEnd > closeAt) {
			fields = append(fields, fmt.Sprintf("requested time is outside opening hours (%s-%s)", hours.Open, hours.Close))
		}
	}

	if len(fields) > 0 {
		return availability.Window{}, &ValidationError{Fields: fields}
	}
	return win, nil
}

// CreateReservation memvalidasi request lalu melakukan check-then-insert
// atomik. Self-service masuk sebagai pending (provisional hold, tidak
// memblokir meja); staff langsung confirmed. Notifikasi dikirim best-effort
// setelah commit dan tidak pernah membatalkan booking.
func (s *BookingService) CreateReservation(req ReservationRequest) (*models.Reservation, error) {
	settings := s.Settings()
	applyDefaults(&req, settings)

	win, err := s.validate(req, settings)
	if err != nil {
		return nil, err
	}

	status := models.ReservationPending
	if req.Source == models.SourceStaff {
		status = models.ReservationConfirmed
	}

	reservation := models.Reservation{
		Code:          uuid.NewString(),
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		PartySize:     req.PartySize,
		Date:          req.Date,
		StartTime:     req.StartTime,
		DurationHours: req.DurationHours,
		BufferMinutes: req.BufferMinutes,
		Status:        status,
		Source:        req.Source,
		Notes:         req.Notes,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if req.TableID != 0 {
			return s.reserveTable(tx, &reservation, req.TableID, req.PartySize, win)
		}
		return s.autoAssign(tx, &reservation, req.PartySize, win)
	})
	if err != nil {
		return nil, err
	}

	database.RecordChange(s.DB, "reservations", reservation.ID, "INSERT")
	utils.InfoLogger.Printf("Reservation %s created: table=%d date=%s time=%s status=%s",
		reservation.Code, reservation.TableID, reservation.Date, reservation.StartTime, reservation.Status)

	if s.Notifier != nil {
		go s.Notifier.NotifyReservationCreated(reservation)
	}
	return &reservation, nil
}

// reserveTable mengunci baris meja (FOR UPDATE), membaca ulang reservasi
// hari itu dari state terkini, lalu insert jika masih bebas.
func (s *BookingService) reserveTable(tx *gorm.DB, reservation *models.Reservation, tableID uint, partySize int, win availability.Window) error {
	var table models.Table
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&table, tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ValidationError{Fields: []string{fmt.Sprintf("table %d does not exist", tableID)}}
		}
		return err
	}

	if !availability.Fits(table, partySize) {
		return &ValidationError{Fields: []string{
			fmt.Sprintf("table %s seats %d, party of %d does not fit", table.Name, table.Capacity, partySize),
		}}
	}

	var sameDay []models.Reservation
	if err := tx.Where("date = ? AND table_id = ?", reservation.Date, tableID).
		Find(&sameDay).Error; err != nil {
		return err
	}

	if conflict, busy := availability.FindConflict(tableID, reservation.Date, win, sameDay); busy {
		return &ConflictError{
			TableID:   tableID,
			BusyStart: conflict.Start.String(),
			BusyEnd:   conflict.End.String(),
		}
	}

	reservation.TableID = tableID
	return tx.Create(reservation).Error
}

// autoAssign mengunci seluruh inventori meja lalu memilih meja terkecil yang
// muat dan bebas. Inventori yang semuanya terlalu kecil -> ConflictError.
func (s *BookingService) autoAssign(tx *gorm.DB, reservation *models.Reservation, partySize int, win availability.Window) error {
	var tables []models.Table
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Find(&tables).Error; err != nil {
		return err
	}

	var sameDay []models.Reservation
	if err := tx.Where("date = ?", reservation.Date).Find(&sameDay).Error; err != nil {
		return err
	}

	free := availability.AvailableTables(tables, reservation.Date, win, sameDay)
	best, ok := availability.ChooseBestTable(free, partySize)
	if !ok {
		return &ConflictError{}
	}

	reservation.TableID = best.ID
	return tx.Create(reservation).Error
}

// UpdateReservationStatus menulis status baru tanpa validasi overlap ulang;
// transisi status dianggap sudah diotorisasi staff.
func (s *BookingService) UpdateReservationStatus(id uint, newStatus string) (*models.Reservation, error) {
	if !models.ValidStatus(newStatus) {
		return nil, &ValidationError{Fields: []string{"status " + newStatus + " is not valid"}}
	}

	var reservation models.Reservation
	if err := s.DB.First(&reservation, id).Error; err != nil {
		return nil, err
	}

	reservation.Status = newStatus
	if err := s.DB.Save(&reservation).Error; err != nil {
		return nil, err
	}

	database.RecordChange(s.DB, "reservations", reservation.ID, "UPDATE")
	utils.InfoLogger.Printf("Reservation %d status changed to %s", reservation.ID, newStatus)
	return &reservation, nil
}

// DeleteReservation menghapus permanen; order terkait ikut terhapus
// (cascade di data store).
func (s *BookingService) DeleteReservation(id uint) error {
	var reservation models.Reservation
	if err := s.DB.First(&reservation, id).Error; err != nil {
		return err
	}
	if err := s.DB.Select("Orders").Delete(&reservation).Error; err != nil {
		return err
	}
	database.RecordChange(s.DB, "reservations", id, "DELETE")
	return nil
}

// AvailabilityResult adalah snapshot read-only untuk layar pemilihan slot.
// Available dan FitsParty sengaja terpisah supaya UI bisa menampilkan
// "available tapi terlalu kecil" berbeda dari "tidak available".
type AvailabilityResult struct {
	Available []models.Table `json:"available"`
	FitsParty []models.Table `json:"fits_party"`
	Best      *models.Table  `json:"best,omitempty"`
	Window    string         `json:"window"`
}

// CheckAvailability adalah jalur baca untuk UI; tidak mengunci apa pun.
// Hasilnya hanya untuk render, CreateReservation tetap memvalidasi ulang.
func (s *BookingService) CheckAvailability(date, startTime string, partySize int) (*AvailabilityResult, error) {
	settings := s.Settings()
	win, err := availability.BusyWindow(startTime, settings.DefaultDurationHours, settings.DefaultBufferMinutes)
	if err != nil {
		return nil, &ValidationError{Fields: []string{err.Error()}}
	}

	var tables []models.Table
	if err := s.DB.Find(&tables).Error; err != nil {
		return nil, err
	}
	var sameDay []models.Reservation
	if err := s.DB.Where("date = ?", date).Find(&sameDay).Error; err != nil {
		return nil, err
	}

	free := availability.AvailableTables(tables, date, win, sameDay)
	result := &AvailabilityResult{
		Available: free,
		FitsParty: availability.FilterFits(free, partySize),
		Window:    win.String(),
	}
	if best, ok := availability.ChooseBestTable(free, partySize); ok {
		result.Best = &best
	}
	return result, nil
}
