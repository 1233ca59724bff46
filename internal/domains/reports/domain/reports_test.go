package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow(t *testing.T) {
	from := time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)
	w := Window{From: from, To: from.Add(time.Hour)}

	assert.True(t, w.Contains(from))
	assert.True(t, w.Contains(from.Add(59*time.Minute)))
	assert.False(t, w.Contains(from.Add(time.Hour)))
	assert.False(t, w.Contains(from.Add(-time.Nanosecond)))
	assert.True(t, AllTime.Contains(time.Time{}.Add(time.Hour)))
	assert.True(t, Window{From: from}.Contains(from.AddDate(10, 0, 0)))

	require.NoError(t, w.Validate())
	require.NoError(t, AllTime.Validate())
	require.ErrorIs(t, Window{From: from, To: from.Add(-time.Second)}.Validate(), ErrInvalidWindow)
}

func TestCalendarWindows(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	// Sunday evening local time, already Monday in UTC.
	sunday := time.Date(2025, time.March, 16, 21, 30, 0, 0, loc)

	day := DayOf(sunday)
	assert.Equal(t, time.Date(2025, time.March, 16, 0, 0, 0, 0, loc), day.From)
	assert.Equal(t, time.Date(2025, time.March, 17, 0, 0, 0, 0, loc), day.To)

	week := WeekOf(sunday)
	assert.Equal(t, time.Date(2025, time.March, 10, 0, 0, 0, 0, loc), week.From)
	assert.Equal(t, time.Date(2025, time.March, 17, 0, 0, 0, 0, loc), week.To)

	monday := WeekOf(time.Date(2025, time.March, 10, 0, 0, 0, 0, loc))
	assert.Equal(t, week, monday)

	month := MonthOf(sunday)
	assert.Equal(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, loc), month.From)
	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, loc), month.To)
}
