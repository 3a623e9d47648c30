package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDiffSlotSets(t *testing.T) {
	diff := DiffSlotSets([]int64{1, 2, 3}, []int64{2, 3, 4})
	assert.Equal(t, []int64{4}, diff.ToAdd)
	assert.Equal(t, []int64{1}, diff.ToRemove)
}

func TestDiffSlotSets_NoChanges(t *testing.T) {
	diff := DiffSlotSets([]int64{1, 2}, []int64{2, 1})
	assert.Empty(t, diff.ToAdd)
	assert.Empty(t, diff.ToRemove)
}

func TestDiffSlotSets_EmptyDesired(t *testing.T) {
	diff := DiffSlotSets([]int64{1, 2}, nil)
	assert.Empty(t, diff.ToAdd)
	assert.Equal(t, []int64{1, 2}, diff.ToRemove)
}

func TestDiffSlotSets_EmptyCurrent(t *testing.T) {
	diff := DiffSlotSets(nil, []int64{5, 6})
	assert.Equal(t, []int64{5, 6}, diff.ToAdd)
	assert.Empty(t, diff.ToRemove)
}

func TestInHalfWindow(t *testing.T) {
	// Граница [from, to): начало входит, конец нет
	assert.True(t, InHalfWindow("10:00", HalfMorningStart, HalfMorningEnd))
	assert.True(t, InHalfWindow("12:30", HalfMorningStart, HalfMorningEnd))
	assert.False(t, InHalfWindow("13:00", HalfMorningStart, HalfMorningEnd))
	assert.False(t, InHalfWindow("09:30", HalfMorningStart, HalfMorningEnd))

	assert.True(t, InHalfWindow("13:00", HalfEveningStart, HalfEveningEnd))
	assert.True(t, InHalfWindow("16:30", HalfEveningStart, HalfEveningEnd))
	assert.False(t, InHalfWindow("17:00", HalfEveningStart, HalfEveningEnd))
}

func TestLeave_Covers(t *testing.T) {
	leave := &Leave{
		StartDate: time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, leave.Covers(time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)))
	assert.True(t, leave.Covers(time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)))
	assert.True(t, leave.Covers(time.Date(2025, 6, 12, 23, 59, 0, 0, time.UTC)))
	assert.False(t, leave.Covers(time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)))
	assert.False(t, leave.Covers(time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)))
}

func TestBookingStatus_Transitions(t *testing.T) {
	pending := &Booking{Status: StatusPending}
	accepted := &Booking{Status: StatusAccepted}
	rejected := &Booking{Status: StatusRejected}
	canceled := &Booking{Status: StatusCanceled}

	assert.True(t, pending.IsActive())
	assert.True(t, accepted.IsActive())
	assert.False(t, rejected.IsActive())
	assert.False(t, canceled.IsActive())

	assert.False(t, pending.CanBeCancelled())
	assert.True(t, accepted.CanBeCancelled())
	assert.False(t, canceled.CanBeCancelled())

	assert.True(t, pending.CanBeRescheduled())
	assert.True(t, accepted.CanBeRescheduled())
	assert.False(t, rejected.CanBeRescheduled())

	assert.True(t, rejected.IsTerminal())
	assert.True(t, canceled.IsTerminal())
	assert.False(t, pending.IsTerminal())
}

func TestStatusFromString(t *testing.T) {
	status, ok := StatusFromString("accepted")
	assert.True(t, ok)
	assert.Equal(t, StatusAccepted, status)

	_, ok = StatusFromString("unknown")
	assert.False(t, ok)
}
