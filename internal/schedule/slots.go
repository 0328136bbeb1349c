package schedule

import (
	"sort"
	"time"
)

// Slot is one candidate bookable window of a service's duration. Slots are
// advisory: they can go stale between generation and submission, so booking
// creation re-validates against current state.
type Slot struct {
	Start     time.Time
	End       time.Time
	Available bool
}

// generateSlots walks each open window with a fixed step and emits every
// slot of length duration that fits entirely inside the window. The step is
// duration + buffer + interval: the padding is consumed between slots, not
// before the first or after the last.
func generateSlots(windows []TimeWindow, duration, step time.Duration, busy []TimeWindow) []Slot {
	if duration <= 0 || step <= 0 {
		return nil
	}

	var slots []Slot
	for _, w := range windows {
		for cursor := w.Start; !cursor.Add(duration).After(w.End); cursor = cursor.Add(step) {
			slot := TimeWindow{Start: cursor, End: cursor.Add(duration)}
			slots = append(slots, Slot{
				Start:     slot.Start,
				End:       slot.End,
				Available: !overlapsAny(slot, busy),
			})
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})
	return slots
}

func overlapsAny(w TimeWindow, busy []TimeWindow) bool {
	for _, b := range busy {
		if w.Overlaps(b) {
			return true
		}
	}
	return false
}

// filterLeadTime drops slots starting inside the minimum notice window.
// Only today's slots are ever lead-time-filtered; future dates pass through.
func filterLeadTime(slots []Slot, date, now time.Time, minNotice time.Duration) []Slot {
	if !sameDay(date, now) {
		return slots
	}

	earliest := now.Add(minNotice)
	kept := slots[:0]
	for _, s := range slots {
		if s.Start.Before(earliest) {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}
