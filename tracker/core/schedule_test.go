package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"presensi.app/presensi/tracker/model"
	"presensi.app/presensi/utils"
)

func referenceSettings() Settings {
	return Settings{
		OperatingHours: []model.OperatingHoursRule{
			referenceRule(),
			{
				DayGroup:       model.DayGroupFri,
				CheckInTime:    "07:00",
				CheckOutTime:   "11:30",
				LateTolerance:  15,
				ScanInBefore:   60,
				ScanOutBefore:  15,
				ScanOutEndTime: "13:30",
				Enabled:        true,
			},
			{
				DayGroup:       model.DayGroupSat,
				CheckInTime:    "07:30",
				CheckOutTime:   "11:00",
				LateTolerance:  15,
				ScanInBefore:   60,
				ScanOutBefore:  15,
				ScanOutEndTime: "12:00",
				Enabled:        false,
			},
		},
	}
}

func civilDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 8, 0, 0, 0, utils.JakartaTZ)
}

func TestDayGroupFor(t *testing.T) {
	tests := []struct {
		weekday  time.Weekday
		expected string
	}{
		{time.Monday, model.DayGroupMonThu},
		{time.Tuesday, model.DayGroupMonThu},
		{time.Wednesday, model.DayGroupMonThu},
		{time.Thursday, model.DayGroupMonThu},
		{time.Friday, model.DayGroupFri},
		{time.Saturday, model.DayGroupSat},
		{time.Sunday, ""},
	}

	for _, tt := range tests {
		t.Run(tt.weekday.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, DayGroupFor(tt.weekday))
		})
	}
}

func TestResolveEffectiveHours(t *testing.T) {
	settings := referenceSettings()

	t.Run("Weekday resolves its group rule", func(t *testing.T) {
		// 2026-01-05 is a Monday
		eff, reason := ResolveEffectiveHours(civilDate(2026, 1, 5), settings)
		assert.Empty(t, reason)
		assert.Equal(t, model.DayGroupMonThu, eff.DayGroup)
		assert.Equal(t, "13:00", eff.CheckOutTime)
	})

	t.Run("Friday resolves the fri rule", func(t *testing.T) {
		eff, reason := ResolveEffectiveHours(civilDate(2026, 1, 9), settings)
		assert.Empty(t, reason)
		assert.Equal(t, model.DayGroupFri, eff.DayGroup)
	})

	t.Run("Sunday has no group", func(t *testing.T) {
		_, reason := ResolveEffectiveHours(civilDate(2026, 1, 4), settings)
		assert.Equal(t, ClosedNoGroup, reason)
	})

	t.Run("Disabled day is closed", func(t *testing.T) {
		_, reason := ResolveEffectiveHours(civilDate(2026, 1, 10), settings)
		assert.Equal(t, ClosedDisabled, reason)
	})

	t.Run("Holiday short-circuits before the rule lookup", func(t *testing.T) {
		s := referenceSettings()
		s.Holidays = []model.Holiday{{Date: "2026-01-05", Name: "Foundation Day"}}
		_, reason := ResolveEffectiveHours(civilDate(2026, 1, 5), s)
		assert.Equal(t, ClosedHoliday, reason)
	})

	t.Run("Early dismissal overrides check-out time only", func(t *testing.T) {
		s := referenceSettings()
		s.EarlyDismissals = []model.EarlyDismissal{{Date: "2026-01-05", Time: "10:00"}}

		eff, reason := ResolveEffectiveHours(civilDate(2026, 1, 5), s)
		assert.Empty(t, reason)
		assert.Equal(t, "10:00", eff.CheckOutTime)
		// geometry of the out window stays as configured
		assert.Equal(t, "15:00", eff.ScanOutEndTime)
		assert.Equal(t, 15, eff.ScanOutBefore)
		assert.Equal(t, "07:00", eff.CheckInTime)
	})

	t.Run("Dismissal on another date does not apply", func(t *testing.T) {
		s := referenceSettings()
		s.EarlyDismissals = []model.EarlyDismissal{{Date: "2026-01-06", Time: "10:00"}}
		eff, reason := ResolveEffectiveHours(civilDate(2026, 1, 5), s)
		assert.Empty(t, reason)
		assert.Equal(t, "13:00", eff.CheckOutTime)
	})
}

func TestValidateRule(t *testing.T) {
	t.Run("Reference rule is valid", func(t *testing.T) {
		assert.NoError(t, ValidateRule(referenceRule()))
	})

	t.Run("Rejects malformed time", func(t *testing.T) {
		r := referenceRule()
		r.CheckInTime = "0700"
		assert.Error(t, ValidateRule(r))
	})

	t.Run("Rejects negative tolerance", func(t *testing.T) {
		r := referenceRule()
		r.LateTolerance = -1
		assert.Error(t, ValidateRule(r))
	})

	t.Run("Rejects check-out before check-in", func(t *testing.T) {
		r := referenceRule()
		r.CheckOutTime = "06:30"
		assert.Error(t, ValidateRule(r))
	})

	t.Run("Rejects inverted windows", func(t *testing.T) {
		r := referenceRule()
		r.CheckOutTime = "07:30"
		r.ScanOutBefore = 120 // scanOutStart 05:30, before scanInStart 06:00
		assert.Error(t, ValidateRule(r))
	})

	t.Run("Rejects scan-out end before scan-out start", func(t *testing.T) {
		r := referenceRule()
		r.ScanOutEndTime = "12:00"
		assert.Error(t, ValidateRule(r))
	})
}

func TestValidateDismissal(t *testing.T) {
	settings := referenceSettings()
	// Monday rule: scanInStart 06:00, ScanOutBefore 15, scanOutEnd 15:00

	t.Run("Accepts a sane dismissal", func(t *testing.T) {
		d := model.EarlyDismissal{Date: "2026-01-05", Time: "10:00"}
		assert.NoError(t, ValidateDismissal(d, settings))
	})

	t.Run("Rejects a dismissal that erases the check-in window", func(t *testing.T) {
		d := model.EarlyDismissal{Date: "2026-01-05", Time: "05:00"}
		assert.Error(t, ValidateDismissal(d, settings))
	})

	t.Run("Rejects a dismissal past the scan-out end", func(t *testing.T) {
		d := model.EarlyDismissal{Date: "2026-01-05", Time: "15:30"}
		assert.Error(t, ValidateDismissal(d, settings))
	})

	t.Run("Rejects a Sunday dismissal", func(t *testing.T) {
		d := model.EarlyDismissal{Date: "2026-01-04", Time: "10:00"}
		assert.Error(t, ValidateDismissal(d, settings))
	})

	t.Run("Rejects a malformed date", func(t *testing.T) {
		d := model.EarlyDismissal{Date: "05-01-2026", Time: "10:00"}
		assert.Error(t, ValidateDismissal(d, settings))
	})
}
