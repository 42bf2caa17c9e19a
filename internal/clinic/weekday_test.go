package clinic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayMappingRoundTrips(t *testing.T) {
	for day := time.Sunday; day <= time.Saturday; day++ {
		name := WeekdayName(day)
		require.NotEmpty(t, name)
		got, ok := ParseWeekday(name)
		require.True(t, ok, name)
		assert.Equal(t, day, got)
		// the stored spelling matches Go's English day names
		assert.Equal(t, day.String(), name)
	}
}

func TestParseWeekdayIsCaseInsensitive(t *testing.T) {
	got, ok := ParseWeekday("  tUESday ")
	assert.True(t, ok)
	assert.Equal(t, time.Tuesday, got)

	_, ok = ParseWeekday("Tue")
	assert.False(t, ok)
	_, ok = ParseWeekday("")
	assert.False(t, ok)
}

func TestParseSlotTime(t *testing.T) {
	tests := []struct {
		in      string
		minutes int
		wantErr bool
	}{
		{in: "09:00 AM", minutes: 9 * 60},
		{in: "9:00 am", minutes: 9 * 60},
		{in: "12:00 PM", minutes: 12 * 60},
		{in: "12:15 AM", minutes: 15},
		{in: "05:30 PM", minutes: 17*60 + 30},
		{in: "05:30PM", minutes: 17*60 + 30},
		{in: "14:45", minutes: 14*60 + 45},
		{in: "later", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSlotTime(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSlotTime)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.minutes, got)
		})
	}
}

func TestSortSlots(t *testing.T) {
	slots := []TimeSlot{
		{Time: "02:00 PM", Available: true},
		{Time: "bogus"},
		{Time: "09:30 AM"},
		{Time: "12:00 PM", Available: true},
	}
	sorted := SortSlots(slots)

	assert.Equal(t, []string{"09:30 AM", "12:00 PM", "02:00 PM", "bogus"}, times(sorted))
	// input untouched
	assert.Equal(t, "02:00 PM", slots[0].Time)
}

func TestDentistSlotHelpers(t *testing.T) {
	d := Dentist{
		AvailableDays: []string{"monday", "Friday"},
		Slots: []TimeSlot{
			{Time: "09:00 AM", Available: false},
			{Time: "11:00 AM", Available: true},
		},
	}
	assert.True(t, d.WorksOn(time.Monday))
	assert.True(t, d.WorksOn(time.Friday))
	assert.False(t, d.WorksOn(time.Sunday))
	assert.True(t, d.HasOpenSlot())
	assert.Equal(t, []string{"11:00 AM"}, d.OpenSlotTimes())
	assert.True(t, d.SlotOpen(" 11:00 am "))
	assert.False(t, d.SlotOpen("09:00 AM"))

	closed := Dentist{Slots: []TimeSlot{{Time: "09:00 AM"}}}
	assert.False(t, closed.HasOpenSlot())
	assert.Nil(t, closed.OpenSlotTimes())
}

func times(slots []TimeSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Time
	}
	return out
}
