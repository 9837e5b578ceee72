package services

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/reservation-app/availability"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
)

const testDate = "2026-10-01"

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func setupBookingTestDB(t *testing.T) *gorm.DB {
	// Nama DB per test supaya koneksi dalam pool berbagi database yang sama
	// tanpa bocor antar test
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Table{},
		&models.Reservation{},
		&models.Order{},
		&models.OrderItem{},
		&models.Menu{},
		&models.MenuCategory{},
		&models.Notification{},
		&models.DBChange{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func testSettings() models.BookingSettings {
	settings := models.DefaultBookingSettings()
	for d := time.Sunday; d <= time.Saturday; d++ {
		settings.OpeningHours[d] = models.OpeningHours{Open: "10:00", Close: "23:30"}
	}
	settings.MaxAdvanceDays = 365
	return settings
}

func newTestService(db *gorm.DB) *BookingService {
	svc := NewBookingService(db, testSettings(), nil)
	// Waktu tetap supaya advance window deterministik
	svc.Now = func() time.Time {
		return time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)
	}
	return svc
}

func staffRequest(tableID uint, start string) ReservationRequest {
	return ReservationRequest{
		TableID:      tableID,
		CustomerName: "Budi",
		PartySize:    2,
		Date:         testDate,
		StartTime:    start,
		Source:       models.SourceStaff,
	}
}

func TestCreateReservationHappyPath(t *testing.T) {
	db := setupBookingTestDB(t)
	db.Create(&models.Table{Name: "T1", Capacity: 2})
	svc := newTestService(db)

	res, err := svc.CreateReservation(staffRequest(1, "19:00"))
	assert.NoError(t, err)
	assert.Equal(t, models.ReservationConfirmed, res.Status)
	assert.Equal(t, uint(1), res.TableID)
	assert.Equal(t, 2, res.DurationHours)
	assert.Equal(t, 15, res.BufferMinutes)
	assert.NotEmpty(t, res.Code)
}

func TestCreateReservationSelfServiceIsPending(t *testing.T) {
	db := setupBookingTestDB(t)
	db.Create(&models.Table{Name: "T1", Capacity: 4})
	svc := newTestService(db)

	req := staffRequest(1, "19:00")
	req.Source = models.SourceSelfService
	res, err := svc.CreateReservation(req)
	assert.NoError(t, err)
	assert.Equal(t, models.ReservationPending, res.Status)

	// Pending tidak memblokir: booking staff pada jam yang sama tetap lolos
	second, err := svc.CreateReservation(staffRequest(1, "19:00"))
	assert.NoError(t, err)
	assert.Equal(t, models.ReservationConfirmed, second.Status)
}

func TestCreateReservationConflict(t *testing.T) {
	db := setupBookingTestDB(t)
	db.Create(&models.Table{Name: "T1", Capacity: 2})
	svc := newTestService(db)

	// Confirmed 19:00/2h/15m -> sibuk 18:45-21:15
	_, err := svc.CreateReservation(staffRequest(1, "19:00"))
	assert.NoError(t, err)

	// 21:00 -> jendela request mulai 20:45, overlap
	_, err = svc.CreateReservation(staffRequest(1, "21:00"))
	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))
	assert.Equal(t, "18:45", conflict.BusyStart)
	assert.Equal(t, "21:15", conflict.BusyEnd)

	// 21:30 -> jendela request mulai 21:15, menyentuh batas, tidak konflik
	_, err = svc.CreateReservation(staffRequest(1, "21:30"))
	assert.NoError(t, err)

	// Hanya dua reservasi yang tersimpan
	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestCreateReservationAutoAssignPicksSmallestFit(t *testing.T) {
	db := setupBookingTestDB(t)
	db.Create(&models.Table{Name: "Besar", Capacity: 8})
	db.Create(&models.Table{Name: "Kecil", Capacity: 2})
	db.Create(&models.Table{Name: "Sedang", Capacity: 4})
	svc := newTestService(db)

	req := staffRequest(0, "19:00")
	req.PartySize = 3
	res, err := svc.CreateReservation(req)
	assert.NoError(t, err)

	var table models.Table
	db.First(&table, res.TableID)
	assert.Equal(t, "Sedang", table.Name)
}

func TestCreateReservationPartyTooLarge(t *testing.T) {
	db := setupBookingTestDB(t)
	db.Create(&models.Table{Name: "T1", Capacity: 4})
	db.Create(&models.Table{Name: "T2", Capacity: 6})
	svc := newTestService(db)

	// Auto-assign: tidak ada meja yang muat 8 orang
	req := staffRequest(0, "19:00")
	req.PartySize = 8
	_, err := svc.CreateReservation(req)
	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))

	// Meja eksplisit yang terlalu kecil -> ValidationError
	req = staffRequest(1, "19:00")
	req.PartySize = 8
	_, err = svc.CreateReservation(req)
	var validation *ValidationError
	assert.True(t, errors.As(err, &validation))

	// Tidak ada reservasi yang diam-diam masuk ke meja undersized
	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateReservationValidation(t *testing.T) {
	db := setupBookingTestDB(t)
	db.Create(&models.Table{Name: "T1", Capacity: 4})
	svc := newTestService(db)

	req := ReservationRequest{
		TableID:   1,
		PartySize: 0,
		Date:      "01-10-2026",
		StartTime: "tujuh malam",
		Source:    models.SourceStaff,
	}
	_, err := svc.CreateReservation(req)
	var validation *ValidationError
	assert.True(t, errors.As(err, &validation))
	assert.GreaterOrEqual(t, len(validation.Fields), 3)
}

func TestCreateReservationAdvanceWindow(t *testing.T) {
	db := setupBookingTestDB(t)
	db.Create(&models.Table{Name: "T1", Capacity: 4})
	svc := newTestService(db)
	settings := testSettings()
	settings.MaxAdvanceDays = 7
	svc.UpdateSettings(settings)

	// Terlalu mepet: Now = 2026-09-01 12:00, minimal 1 jam sebelumnya
	req := staffRequest(1, "12:30")
	req.Date = "2026-09-01"
	_, err := svc.CreateReservation(req)
	var validation *ValidationError
	assert.True(t, errors.As(err, &validation))

	// Terlalu jauh di depan
	req = staffRequest(1, "19:00")
	req.Date = "2026-12-01"
	_, err = svc.CreateReservation(req)
	assert.True(t, errors.As(err, &validation))
}

func TestCreateReservationRejectsMidnightCrossing(t *testing.T) {
	db := setupBookingTestDB(t)
	db.Create(&models.Table{Name: "T1", Capacity: 4})
	svc := newTestService(db)

	// 23:00 + 2 jam + buffer melewati tengah malam
	_, err := svc.CreateReservation(staffRequest(1, "23:00"))
	var validation *ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestCreateReservationOutsideOpeningHours(t *testing.T) {
	db := setupBookingTestDB(t)
	db.Create(&models.Table{Name: "T1", Capacity: 4})
	svc := newTestService(db)
	settings := testSettings()
	settings.OpeningHours[time.Thursday] = models.OpeningHours{Open: "17:00", Close: "22:00"}
	svc.UpdateSettings(settings)

	// 2026-10-01 adalah Kamis; service 21:00-23:00 melewati jam tutup
	_, err := svc.CreateReservation(staffRequest(1, "21:00"))
	var validation *ValidationError
	assert.True(t, errors.As(err, &validation))
}

// Property: berapapun request acak yang ditembakkan, Writer tidak pernah
// meloloskan dua reservasi occupying yang jendelanya overlap di meja yang sama.
func TestNoOverlapInvariantUnderRandomLoad(t *testing.T) {
	db := setupBookingTestDB(t)
	db.Create(&models.Table{Name: "T1", Capacity: 2})
	db.Create(&models.Table{Name: "T2", Capacity: 4})
	db.Create(&models.Table{Name: "T3", Capacity: 6})
	svc := newTestService(db)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 150; i++ {
		req := ReservationRequest{
			TableID:       uint(rng.Intn(4)), // 0 = auto-assign
			CustomerName:  fmt.Sprintf("Tamu %d", i),
			PartySize:     1 + rng.Intn(6),
			Date:          testDate,
			StartTime:     availability.Clock(10*60 + 15*rng.Intn(40)).String(), // 10:00..19:45
			DurationHours: 1 + rng.Intn(3),
			BufferMinutes: 15 * rng.Intn(3),
			Source:        models.SourceStaff,
		}

		_, err := svc.CreateReservation(req)
		if err != nil {
			var validation *ValidationError
			var conflict *ConflictError
			assert.True(t, errors.As(err, &validation) || errors.As(err, &conflict),
				"unexpected error type: %v", err)
		}
	}

	var all []models.Reservation
	assert.NoError(t, db.Find(&all).Error)
	assert.NotEmpty(t, all)

	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			a, b := all[i], all[j]
			if a.TableID != b.TableID || a.Date != b.Date || !a.IsOccupying() || !b.IsOccupying() {
				continue
			}
			winA, err := availability.ReservationWindow(a)
			assert.NoError(t, err)
			winB, err := availability.ReservationWindow(b)
			assert.NoError(t, err)
			assert.False(t, availability.Overlaps(winA, winB),
				"reservations %d and %d overlap on table %d: %s vs %s", a.ID, b.ID, a.TableID, winA, winB)
		}
	}
}

// Admin bisa me-reload settings saat handler booking lain sedang berjalan;
// keduanya tidak boleh saling balapan (jalankan dengan -race).
func TestSettingsReloadDuringBooking(t *testing.T) {
	db := setupBookingTestDB(t)
	db.Create(&models.Table{Name: "T1", Capacity: 4})
	svc := newTestService(db)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			settings := testSettings()
			settings.DefaultBufferMinutes = 30
			svc.UpdateSettings(settings)
			svc.UpdateSettings(testSettings())
		}
	}()

	for i := 0; i < 50; i++ {
		req := staffRequest(1, availability.Clock(10*60+(15*i)%600).String()) // 10:00..19:45
		req.CustomerName = fmt.Sprintf("Tamu %d", i)
		_, err := svc.CreateReservation(req)
		if err != nil {
			var validation *ValidationError
			var conflict *ConflictError
			assert.True(t, errors.As(err, &validation) || errors.As(err, &conflict),
				"unexpected error type: %v", err)
		}
		if _, err := svc.CheckAvailability(testDate, "19:00", 2); err != nil {
			t.Fatalf("CheckAvailability failed: %v", err)
		}
	}
	close(done)
	wg.Wait()
}

func TestUpdateReservationStatus(t *testing.T) {
	db := setupBookingTestDB(t)
	db.Create(&models.Table{Name: "T1", Capacity: 4})
	svc := newTestService(db)

	res, err := svc.CreateReservation(staffRequest(1, "19:00"))
	assert.NoError(t, err)

	updated, err := svc.UpdateReservationStatus(res.ID, models.ReservationArrived)
	assert.NoError(t, err)
	assert.Equal(t, models.ReservationArrived, updated.Status)

	_, err = svc.UpdateReservationStatus(res.ID, "teleported")
	var validation *ValidationError
	assert.True(t, errors.As(err, &validation))

	_, err = svc.UpdateReservationStatus(9999, models.ReservationArrived)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDeleteReservation(t *testing.T) {
	db := setupBookingTestDB(t)
	db.Create(&models.Table{Name: "T1", Capacity: 4})
	svc := newTestService(db)

	res, err := svc.CreateReservation(staffRequest(1, "19:00"))
	assert.NoError(t, err)

	assert.NoError(t, svc.DeleteReservation(res.ID))

	var count int64
	db.Model(&models.Reservation{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCheckAvailabilityReadOnly(t *testing.T) {
	db := setupBookingTestDB(t)
	db.Create(&models.Table{Name: "T1", Capacity: 2})
	db.Create(&models.Table{Name: "T2", Capacity: 6})
	svc := newTestService(db)

	_, err := svc.CreateReservation(staffRequest(1, "19:00"))
	assert.NoError(t, err)

	result, err := svc.CheckAvailability(testDate, "19:00", 4)
	assert.NoError(t, err)
	assert.Len(t, result.Available, 1)
	assert.Len(t, result.FitsParty, 1)
	assert.NotNil(t, result.Best)
	assert.Equal(t, "T2", result.Best.Name)

	// Pemanggilan kedua dengan input sama -> hasil sama
	again, err := svc.CheckAvailability(testDate, "19:00", 4)
	assert.NoError(t, err)
	assert.Equal(t, result, again)
}
