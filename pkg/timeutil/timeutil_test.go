package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2025-03-03 ")
	require.NoError(t, err)
	assert.Equal(t, Date(2025, time.March, 3), d)

	_, err = ParseDate("03/03/2025")
	assert.Error(t, err)
}

func TestCivilDate_DropsClockAndZone(t *testing.T) {
	loc := time.FixedZone("ART", -3*60*60)
	in := time.Date(2025, time.March, 3, 22, 30, 0, 0, loc)
	assert.Equal(t, Date(2025, time.March, 3), CivilDate(in))
}

func TestWeekdayNameEs(t *testing.T) {
	assert.Equal(t, "Domingo", WeekdayNameEs(time.Sunday))
	assert.Equal(t, "Miércoles", WeekdayNameEs(time.Wednesday))
	assert.Equal(t, "Sábado", WeekdayNameEs(time.Saturday))
	assert.Equal(t, "", WeekdayNameEs(time.Weekday(9)))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 4, DaysBetween(Date(2025, time.March, 3), Date(2025, time.March, 7)))
	assert.Equal(t, -1, DaysBetween(Date(2025, time.March, 3), Date(2025, time.March, 2)))
	assert.Equal(t, 146097*4, DaysBetween(Date(1800, time.January, 6), Date(3400, time.January, 6)))
}

func TestFormatSpanish(t *testing.T) {
	assert.Equal(t, "3 de marzo de 2025", FormatSpanish(Date(2025, time.March, 3)))
	assert.True(t, IsWeekend(Date(2025, time.March, 8)))
	assert.True(t, IsWorkday(Date(2025, time.March, 7)))
}
