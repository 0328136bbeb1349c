package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var allStatuses = []Status{
	StatusPending, StatusConfirmed, StatusInProgress,
	StatusCompleted, StatusCancelled, StatusNoShow,
}

func TestStatusCanTransitionTo(t *testing.T) {
	allowed := map[Status][]Status{
		StatusPending:    {StatusConfirmed, StatusInProgress, StatusCancelled, StatusNoShow},
		StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
		StatusInProgress: {StatusCompleted, StatusCancelled},
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatesAllowNothing(t *testing.T) {
	for _, terminal := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		assert.True(t, terminal.IsTerminal(), "%s", terminal)
		for _, to := range allStatuses {
			assert.False(t, terminal.CanTransitionTo(to), "%s -> %s must be rejected", terminal, to)
		}
	}

	for _, open := range []Status{StatusPending, StatusConfirmed, StatusInProgress} {
		assert.False(t, open.IsTerminal(), "%s", open)
	}
}

func TestBookingWindowAndActivity(t *testing.T) {
	start := time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)
	b := Booking{
		ID:              uuid.New(),
		StartTime:       start,
		DurationMinutes: 45,
		Status:          StatusConfirmed,
	}

	assert.Equal(t, start.Add(45*time.Minute), b.EndTime())
	w := b.Window()
	assert.Equal(t, start, w.Start)
	assert.Equal(t, b.EndTime(), w.End)

	assert.True(t, b.IsActive())
	b.Status = StatusNoShow
	assert.False(t, b.IsActive(), "no-show releases the slot")
	b.Status = StatusCancelled
	assert.False(t, b.IsActive())
}
