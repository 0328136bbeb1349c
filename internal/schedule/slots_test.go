package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monday is a reference Monday used throughout the slot tests.
var monday = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func windowOn(day time.Time, startHour, startMin, endHour, endMin int) TimeWindow {
	return TimeWindow{
		Start: day.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute),
		End:   day.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute),
	}
}

func TestGenerateSlots_FillsWindowExactly(t *testing.T) {
	// 09:00-12:00, 30 minute service, no buffer or interval: six slots, the
	// last ending exactly at close.
	windows := []TimeWindow{windowOn(monday, 9, 0, 12, 0)}

	slots := generateSlots(windows, 30*time.Minute, 30*time.Minute, nil)

	require.Len(t, slots, 6)
	assert.Equal(t, monday.Add(9*time.Hour), slots[0].Start)
	assert.Equal(t, monday.Add(11*time.Hour+30*time.Minute), slots[5].Start)
	assert.Equal(t, monday.Add(12*time.Hour), slots[5].End)
	for _, s := range slots {
		assert.True(t, s.Available)
	}
}

func TestGenerateSlots_BufferSpreadsStep(t *testing.T) {
	// Same window with a 10 minute buffer: the step grows to 40 minutes and
	// the 11:40 slot ending at 12:10 is dropped, leaving five.
	windows := []TimeWindow{windowOn(monday, 9, 0, 12, 0)}

	slots := generateSlots(windows, 30*time.Minute, 40*time.Minute, nil)

	require.Len(t, slots, 5)
	wantStarts := []time.Time{
		monday.Add(9 * time.Hour),
		monday.Add(9*time.Hour + 40*time.Minute),
		monday.Add(10*time.Hour + 20*time.Minute),
		monday.Add(11 * time.Hour),
		monday.Add(11*time.Hour + 40*time.Minute),
	}
	for i, s := range slots {
		assert.Equal(t, wantStarts[i], s.Start)
	}
}

func TestGenerateSlots_NoPartialSlot(t *testing.T) {
	// A 50 minute window fits exactly one 30 minute slot; the second would
	// spill one minute past the end.
	windows := []TimeWindow{windowOn(monday, 9, 0, 9, 50)}

	slots := generateSlots(windows, 30*time.Minute, 21*time.Minute, nil)

	require.Len(t, slots, 1)
	assert.Equal(t, monday.Add(9*time.Hour), slots[0].Start)
}

func TestGenerateSlots_CapacityFormula(t *testing.T) {
	// count = floor((L-d)/(d+b+i)) + 1 when L >= d, else 0.
	tests := []struct {
		name          string
		windowMinutes int
		duration      int
		step          int
		want          int
	}{
		{"window shorter than service", 20, 30, 30, 0},
		{"exact fit", 30, 30, 30, 1},
		{"180 min window, 30 min slots", 180, 30, 30, 6},
		{"180 min window, 40 min step", 180, 30, 40, 4},
		{"uneven remainder", 100, 30, 35, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end := monday.Add(9*time.Hour + time.Duration(tt.windowMinutes)*time.Minute)
			windows := []TimeWindow{{Start: monday.Add(9 * time.Hour), End: end}}

			slots := generateSlots(windows,
				time.Duration(tt.duration)*time.Minute,
				time.Duration(tt.step)*time.Minute,
				nil)

			assert.Len(t, slots, tt.want)
		})
	}
}

func TestGenerateSlots_MarksBusyOverlap(t *testing.T) {
	windows := []TimeWindow{windowOn(monday, 9, 0, 12, 0)}
	busy := []TimeWindow{windowOn(monday, 10, 0, 10, 30)}

	slots := generateSlots(windows, 30*time.Minute, 30*time.Minute, busy)

	require.Len(t, slots, 6)
	for _, s := range slots {
		if s.Start.Equal(monday.Add(10 * time.Hour)) {
			assert.False(t, s.Available, "10:00 slot overlaps the booking")
		} else {
			assert.True(t, s.Available, "slot at %s should be free", s.Start)
		}
	}
}

func TestGenerateSlots_BusyTouchingBoundaryDoesNotBlock(t *testing.T) {
	windows := []TimeWindow{windowOn(monday, 9, 0, 10, 0)}
	// Booking ends exactly when the 09:30 slot starts.
	busy := []TimeWindow{windowOn(monday, 9, 0, 9, 30)}

	slots := generateSlots(windows, 30*time.Minute, 30*time.Minute, busy)

	require.Len(t, slots, 2)
	assert.False(t, slots[0].Available)
	assert.True(t, slots[1].Available)
}

func TestFilterLeadTime_TodayOnly(t *testing.T) {
	windows := []TimeWindow{windowOn(monday, 9, 0, 12, 0)}
	slots := generateSlots(windows, 30*time.Minute, 30*time.Minute, nil)

	// 09:50 with 60 minutes notice: slots before 10:50 drop out.
	now := monday.Add(9*time.Hour + 50*time.Minute)
	today := filterLeadTime(slots, monday, now, time.Hour)

	require.Len(t, today, 2)
	assert.Equal(t, monday.Add(11*time.Hour), today[0].Start)

	// The same clock time a day earlier: a future date is never filtered.
	slots = generateSlots(windows, 30*time.Minute, 30*time.Minute, nil)
	future := filterLeadTime(slots, monday, now.AddDate(0, 0, -1), time.Hour)
	assert.Len(t, future, 6)
}

func TestFilterLeadTime_BoundaryInclusive(t *testing.T) {
	windows := []TimeWindow{windowOn(monday, 10, 0, 11, 0)}
	slots := generateSlots(windows, 30*time.Minute, 30*time.Minute, nil)

	// Exactly minNotice ahead of the 10:30 slot.
	now := monday.Add(9*time.Hour + 30*time.Minute)
	kept := filterLeadTime(slots, monday, now, time.Hour)

	require.Len(t, kept, 1)
	assert.Equal(t, monday.Add(10*time.Hour+30*time.Minute), kept[0].Start)
}
