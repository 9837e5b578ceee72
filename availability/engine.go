package availability

import (
	"fmt"
	"sort"

	"github.com/yeremiapane/reservation-app/models"
)

// Engine availability bersifat murni: setiap fungsi hanya bekerja di atas
// snapshot tables/reservations yang diberikan pemanggil, tanpa I/O. Hasil
// kosong adalah cara normal menyatakan "tidak ada availability"; error hanya
// muncul untuk input yang bentuknya rusak (bukan string HH:MM).

// Request adalah slot yang diminta pemanggil.
type Request struct {
	Date          string
	StartTime     string
	PartySize     int
	DurationHours int
	BufferMinutes int
}

// BusyWindow menghitung jendela sibuk sebuah reservasi:
// [start-buffer, start+duration+buffer). Lebarnya selalu D*60 + 2*B menit.
func BusyWindow(startTime string, durationHours, bufferMinutes int) (Window, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return Window{}, err
	}
	if durationHours <= 0 {
		return Window{}, fmt.Errorf("duration must be positive, got %d", durationHours)
	}
	if bufferMinutes < 0 {
		return Window{}, fmt.Errorf("buffer must not be negative, got %d", bufferMinutes)
	}
	serviceEnd := start.Add(durationHours * 60)
	return Window{
		Start: start.Add(-bufferMinutes),
		End:   serviceEnd.Add(bufferMinutes),
	}, nil
}

// RequestWindow menghitung jendela sibuk dari sebuah Request.
func (req Request) RequestWindow() (Window, error) {
	return BusyWindow(req.StartTime, req.DurationHours, req.BufferMinutes)
}

// ReservationWindow menghitung jendela sibuk reservasi yang tersimpan.
func ReservationWindow(r models.Reservation) (Window, error) {
	return BusyWindow(r.StartTime, r.DurationHours, r.BufferMinutes)
}

// FindConflict mencari reservasi occupying pada meja/tanggal yang jendelanya
// overlap dengan win. Mengembalikan jendela konflik untuk pesan ke user
// ("meja sibuk dari X sampai Y"). Reservasi dengan waktu rusak dilewati;
// pemanggil wajib memvalidasi bentuk input sebelum menyimpan.
func FindConflict(tableID uint, date string, win Window, reservations []models.Reservation) (Window, bool) {
	for _, r := range reservations {
		if r.TableID != tableID || r.Date != date || !r.IsOccupying() {
			continue
		}
		existing, err := ReservationWindow(r)
		if err != nil {
			continue
		}
		if Overlaps(win, existing) {
			return existing, true
		}
	}
	return Window{}, false
}

// IsTableAvailable -> true jika tidak ada reservasi occupying yang overlap.
// Meja tanpa reservasi occupying pada tanggal itu selalu available.
func IsTableAvailable(tableID uint, date string, win Window, reservations []models.Reservation) bool {
	_, conflict := FindConflict(tableID, date, win, reservations)
	return !conflict
}

// Fits -> true jika kapasitas meja cukup untuk rombongan. Predikat ini
// sengaja terpisah dari availability supaya pemanggil bisa menampilkan
// "available tapi terlalu kecil" berbeda dari "tidak available".
func Fits(table models.Table, partySize int) bool {
	return table.Capacity >= partySize
}

// AvailableTables memfilter meja yang bebas pada jendela yang diminta,
// tanpa melihat kapasitas.
func AvailableTables(tables []models.Table, date string, win Window, reservations []models.Reservation) []models.Table {
	available := make([]models.Table, 0, len(tables))
	for _, t := range tables {
		if IsTableAvailable(t.ID, date, win, reservations) {
			available = append(available, t)
		}
	}
	return available
}

// FilterFits memfilter meja yang kapasitasnya cukup.
func FilterFits(tables []models.Table, partySize int) []models.Table {
	fits := make([]models.Table, 0, len(tables))
	for _, t := range tables {
		if Fits(t, partySize) {
			fits = append(fits, t)
		}
	}
	return fits
}

// ChooseBestTable memilih meja berkapasitas terkecil yang masih muat
// rombongan (meminimalkan kursi terbuang). Tie-break deterministik: nama,
// lalu ID. Mengembalikan false jika tidak ada kandidat yang muat.
func ChooseBestTable(candidates []models.Table, partySize int) (models.Table, bool) {
	fits := FilterFits(candidates, partySize)
	if len(fits) == 0 {
		return models.Table{}, false
	}
	sort.Slice(fits, func(i, j int) bool {
		if fits[i].Capacity != fits[j].Capacity {
			return fits[i].Capacity < fits[j].Capacity
		}
		if fits[i].Name != fits[j].Name {
			return fits[i].Name < fits[j].Name
		}
		return fits[i].ID < fits[j].ID
	})
	return fits[0], true
}
