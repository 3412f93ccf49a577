package domain

import (
	"testing"
	"time"
)

func TestDefaultPreferences(t *testing.T) {
	p := DefaultPreferences()

	if !p.WorksOn(time.Monday) || !p.WorksOn(time.Friday) {
		t.Error("weekdays should be working days")
	}
	if p.WorksOn(time.Saturday) || p.WorksOn(time.Sunday) {
		t.Error("weekend should not be working days")
	}
	if p.PreBufferMinutes != 15 || p.PostBufferMinutes != 15 {
		t.Errorf("buffers = %d/%d, want 15/15", p.PreBufferMinutes, p.PostBufferMinutes)
	}
}

func TestWorkingWindow(t *testing.T) {
	day := time.Date(2026, time.September, 1, 12, 34, 56, 0, cph)

	t.Run("defaults", func(t *testing.T) {
		start, end, ok := DefaultPreferences().WorkingWindow(day)
		if !ok {
			t.Fatal("WorkingWindow() ok = false, want true")
		}
		if start.Hour() != 8 || start.Minute() != 0 {
			t.Errorf("start = %v, want 08:00", start)
		}
		if end.Hour() != 17 || end.Minute() != 0 {
			t.Errorf("end = %v, want 17:00", end)
		}
		if start.Location() != day.Location() {
			t.Error("window should stay in the day's location")
		}
	})

	t.Run("malformed hours", func(t *testing.T) {
		p := DefaultPreferences()
		p.WorkingHours.Start = "late"
		if _, _, ok := p.WorkingWindow(day); ok {
			t.Error("WorkingWindow() ok = true for malformed start, want false")
		}
	})

	t.Run("inverted hours", func(t *testing.T) {
		p := DefaultPreferences()
		p.WorkingHours = WorkingHours{Start: "17:00", End: "08:00"}
		if _, _, ok := p.WorkingWindow(day); ok {
			t.Error("WorkingWindow() ok = true for inverted window, want false")
		}
	})
}
