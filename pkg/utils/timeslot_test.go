package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTimeSlots(t *testing.T) {
	t.Run("exact hours", func(t *testing.T) {
		slots := ExpandTimeSlots("08:00", "10:00")
		assert.Equal(t, []string{"08:00-09:00", "09:00-10:00"}, slots)
	})

	t.Run("trailing partial hour is dropped", func(t *testing.T) {
		slots := ExpandTimeSlots("08:00", "10:30")
		assert.Equal(t, []string{"08:00-09:00", "09:00-10:00"}, slots)
	})

	t.Run("window shorter than one hour", func(t *testing.T) {
		assert.Empty(t, ExpandTimeSlots("08:00", "08:30"))
	})

	t.Run("empty window", func(t *testing.T) {
		assert.Empty(t, ExpandTimeSlots("08:00", "08:00"))
	})

	t.Run("inverted window", func(t *testing.T) {
		assert.Empty(t, ExpandTimeSlots("10:00", "08:00"))
	})

	t.Run("unparsable input", func(t *testing.T) {
		assert.Empty(t, ExpandTimeSlots("8am", "10:00"))
		assert.Empty(t, ExpandTimeSlots("08:00", "noon"))
	})

	t.Run("labels are zero padded and ordered", func(t *testing.T) {
		slots := ExpandTimeSlots("07:00", "11:00")
		require.Len(t, slots, 4)
		assert.Equal(t, "07:00-08:00", slots[0])
		assert.Equal(t, "10:00-11:00", slots[3])
	})
}

func TestSlotLabel(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	assert.Equal(t, "09:00-10:00", SlotLabel(start, end))
}

func TestDayAbbrev(t *testing.T) {
	// 2026-03-02 is a Monday
	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Mon", DayAbbrev(monday))
	assert.Equal(t, "Sun", DayAbbrev(monday.AddDate(0, 0, 6)))
}

func TestIsValidDay(t *testing.T) {
	for _, day := range Days {
		assert.True(t, IsValidDay(day))
	}
	assert.False(t, IsValidDay("Monday"))
	assert.False(t, IsValidDay("mon"))
	assert.False(t, IsValidDay(""))
}

func TestParseClock(t *testing.T) {
	_, err := ParseClock("23:59")
	require.NoError(t, err)

	_, err = ParseClock("24:00")
	assert.Error(t, err)
}
