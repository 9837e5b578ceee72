package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	c, err := ParseClock("19:30")
	assert.NoError(t, err)
	assert.Equal(t, Clock(19*60+30), c)

	c, err = ParseClock("00:00")
	assert.NoError(t, err)
	assert.Equal(t, Clock(0), c)

	for _, bad := range []string{"", "19:3", "9:30", " 9:30", "1 :30", "19: 5", "24:00", "19:60", "ab:cd", "19.30", "19:30:00", "-1:30"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, "expected error for %q", bad)
	}
}

func TestClockAdd(t *testing.T) {
	c, _ := ParseClock("19:00")
	assert.Equal(t, "21:00", c.Add(120).String())
	assert.Equal(t, "18:45", c.Add(-15).String())
	assert.Equal(t, "19:00", c.Add(0).String())
}

func TestOverlapsHalfOpen(t *testing.T) {
	w := func(start, end string) Window {
		s, _ := ParseClock(start)
		e, _ := ParseClock(end)
		return Window{Start: s, End: e}
	}

	// Overlap di tengah
	assert.True(t, Overlaps(w("18:00", "20:00"), w("19:00", "21:00")))
	assert.True(t, Overlaps(w("19:00", "21:00"), w("18:00", "20:00")))

	// Satu di dalam yang lain
	assert.True(t, Overlaps(w("18:00", "22:00"), w("19:00", "20:00")))

	// Interval yang hanya bersentuhan di endpoint TIDAK overlap
	assert.False(t, Overlaps(w("18:00", "20:00"), w("20:00", "22:00")))
	assert.False(t, Overlaps(w("20:00", "22:00"), w("18:00", "20:00")))

	// Terpisah jauh
	assert.False(t, Overlaps(w("10:00", "11:00"), w("15:00", "16:00")))
}

func TestWindowMinutes(t *testing.T) {
	s, _ := ParseClock("18:45")
	e, _ := ParseClock("21:15")
	assert.Equal(t, 150, Window{Start: s, End: e}.Minutes())
}
