package availability

import (
	"fmt"
)

// Clock adalah waktu dalam menit sejak tengah malam. Semua reservasi berada
// pada hari dan timezone yang sama, jadi tidak ada date/timezone di sini.
// Nilai boleh melewati 24:00 secara aritmatika (mis. akhir buffer 25:15);
// booking service yang menolak jendela yang melewati batas hari.
type Clock int

const MinutesPerDay = 24 * 60

// ParseClock mem-parse "HH:MM" zero-padded menjadi Clock. Keempat posisi
// angka harus digit; " 9:30" dan "9:30" sama-sama ditolak.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	for _, i := range [...]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return Clock(h*60 + m), nil
}

// Add menggeser waktu dengan delta menit (boleh negatif).
func (c Clock) Add(deltaMinutes int) Clock {
	return c + Clock(deltaMinutes)
}

func (c Clock) String() string {
	m := int(c)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Window adalah interval half-open [Start, End).
type Window struct {
	Start Clock
	End   Clock
}

// Overlaps menguji dua interval half-open. Interval yang hanya bersentuhan di
// endpoint TIDAK overlap: reservasi yang selesai (termasuk buffer) tepat saat
// buffer reservasi berikutnya mulai dianggap tidak konflik.
func Overlaps(a, b Window) bool {
	return a.Start < b.End && b.Start < a.End
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}

// Minutes mengembalikan lebar jendela dalam menit.
func (w Window) Minutes() int {
	return int(w.End - w.Start)
}
