package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trendboard/trendboard/schema"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestShiftBack tests calendar-correct backward shifting.
func TestShiftBack(t *testing.T) {
	tests := []struct {
		name    string
		in      time.Time
		periods int
		unit    schema.PeriodUnit
		want    time.Time
	}{
		{"one day", date(2024, 3, 15), 1, schema.UnitDay, date(2024, 3, 14)},
		{"two weeks", date(2024, 3, 15), 2, schema.UnitWeek, date(2024, 3, 1)},
		{"one month", date(2024, 3, 15), 1, schema.UnitMonth, date(2024, 2, 15)},
		{"one quarter", date(2024, 4, 1), 1, schema.UnitQuarter, date(2024, 1, 1)},
		{"one year across leap day", date(2024, 2, 29), 1, schema.UnitYear, date(2023, 3, 1)},
		{"month overflow normalizes", date(2024, 3, 31), 1, schema.UnitMonth, date(2024, 3, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shiftBack(tt.in, tt.periods, tt.unit))
		})
	}
}

// TestBucketStart tests calendar bucket boundaries.
func TestBucketStart(t *testing.T) {
	// 2024-03-13 is a Wednesday; its week starts Sunday 2024-03-10.
	wed := time.Date(2024, 3, 13, 15, 30, 0, 0, time.UTC)

	t.Run("week starts sunday", func(t *testing.T) {
		assert.Equal(t, date(2024, 3, 10), bucketStart(wed, schema.GroupWeek))
	})

	t.Run("sunday is its own week start", func(t *testing.T) {
		sun := date(2024, 3, 10)
		assert.Equal(t, sun, bucketStart(sun, schema.GroupWeek))
	})

	t.Run("month", func(t *testing.T) {
		assert.Equal(t, date(2024, 3, 1), bucketStart(wed, schema.GroupMonth))
	})

	t.Run("quarter", func(t *testing.T) {
		assert.Equal(t, date(2024, 1, 1), bucketStart(wed, schema.GroupQuarter))
		assert.Equal(t, date(2024, 10, 1), bucketStart(date(2024, 12, 31), schema.GroupQuarter))
	})

	t.Run("year", func(t *testing.T) {
		assert.Equal(t, date(2024, 1, 1), bucketStart(wed, schema.GroupYear))
	})
}

// TestAlignWeekday tests weekday alignment of reference dates.
func TestAlignWeekday(t *testing.T) {
	t.Run("already aligned", func(t *testing.T) {
		// Both Fridays.
		ref := date(2024, 3, 8)
		live := date(2024, 3, 15)
		assert.Equal(t, ref, alignWeekday(ref, live))
	})

	t.Run("nudges to nearest matching weekday", func(t *testing.T) {
		// live is a Friday, ref is a Wednesday: nearest Friday is +2 days.
		ref := date(2024, 3, 6)
		live := date(2024, 3, 15)
		aligned := alignWeekday(ref, live)
		assert.Equal(t, live.Weekday(), aligned.Weekday())
		assert.Equal(t, date(2024, 3, 8), aligned)
	})

	t.Run("never moves more than three days", func(t *testing.T) {
		for d := range 7 {
			ref := date(2024, 3, 3+d)
			live := date(2024, 3, 15)
			aligned := alignWeekday(ref, live)
			diff := aligned.Sub(ref).Hours() / 24
			assert.LessOrEqual(t, diff, 3.0)
			assert.GreaterOrEqual(t, diff, -3.0)
			assert.Equal(t, live.Weekday(), aligned.Weekday())
		}
	})
}

// TestWindowStart tests the trailing window boundary used by smoothing.
func TestWindowStart(t *testing.T) {
	// A 7-day window ending at T starts 6 days before T.
	assert.Equal(t, date(2024, 3, 9), windowStart(date(2024, 3, 15), 7, schema.UnitDay))
	// A 1-period window is the point itself.
	assert.Equal(t, date(2024, 3, 15), windowStart(date(2024, 3, 15), 1, schema.UnitDay))
}
