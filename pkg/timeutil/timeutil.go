// Package timeutil provides civil-date utilities for attendance windows.
// Attendance rows carry a calendar date without a meaningful time of day, so
// every helper here works on dates normalised to midnight UTC.
// No external dependencies - uses only standard library.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for attendance dates (Y-m-d).
const DateLayout = "2006-01-02"

// Date creates a civil date at midnight UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CivilDate drops the clock and zone of t, keeping its calendar day as seen in t's location.
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a Y-m-d date into a civil date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return t, nil
}

// FormatDate formats a date as Y-m-d.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

const secondsPerDay = 24 * 60 * 60

// DaysBetween returns the number of whole days from t1 to t2 (negative if t2 is earlier).
// It works on Unix seconds, so spans beyond time.Duration's range are exact.
func DaysBetween(t1, t2 time.Time) int {
	d1 := CivilDate(t1)
	d2 := CivilDate(t2)
	return int((d2.Unix() - d1.Unix()) / secondsPerDay)
}

// IsWeekend checks if the date falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsWorkday checks if the date falls Monday through Friday.
func IsWorkday(t time.Time) bool {
	return !IsWeekend(t)
}

var weekdayNamesEs = [7]string{
	"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado",
}

// WeekdayNameEs returns the Spanish name of the weekday (Sunday=0).
func WeekdayNameEs(wd time.Weekday) string {
	if wd < time.Sunday || wd > time.Saturday {
		return ""
	}
	return weekdayNamesEs[wd]
}

var monthNamesEs = [12]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// MonthNameEs returns the Spanish month name in lower case.
func MonthNameEs(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNamesEs[m-1]
}

// FormatSpanish formats a date like "3 de marzo de 2025".
func FormatSpanish(t time.Time) string {
	return fmt.Sprintf("%d de %s de %d", t.Day(), MonthNameEs(t.Month()), t.Year())
}
