package core

import (
	"fmt"
	"time"

	"presensi.app/presensi/tracker/model"
	"presensi.app/presensi/utils"
)

// Settings is the read-only configuration the engine consumes: one rule per
// day group plus holiday and early-dismissal overrides.
type Settings struct {
	OperatingHours  []model.OperatingHoursRule
	Holidays        []model.Holiday
	EarlyDismissals []model.EarlyDismissal
}

// ClosedReason explains why a date resolved to no effective hours.
type ClosedReason string

const (
	ClosedHoliday  ClosedReason = "holiday"
	ClosedDisabled ClosedReason = "unavailable-today"
	ClosedNoGroup  ClosedReason = "unavailable-now"
)

// DayGroupFor maps a weekday to its operating-hours group.
// Sunday has no group and returns "".
func DayGroupFor(weekday time.Weekday) string {
	switch weekday {
	case time.Monday, time.Tuesday, time.Wednesday, time.Thursday:
		return model.DayGroupMonThu
	case time.Friday:
		return model.DayGroupFri
	case time.Saturday:
		return model.DayGroupSat
	}
	return ""
}

// ResolveEffectiveHours produces the effective rule for a calendar date:
// holiday short-circuit, day-group lookup, enabled check, then the
// early-dismissal check-out override. The override touches CheckOutTime
// only; ScanOutBefore and ScanOutEndTime stay as configured.
// reason is "" when the date is open.
func ResolveEffectiveHours(date time.Time, s Settings) (eff model.OperatingHoursRule, reason ClosedReason) {
	local := date.In(utils.JakartaTZ)
	dateStr := local.Format("2006-01-02")

	group := DayGroupFor(local.Weekday())
	if group == "" {
		return eff, ClosedNoGroup
	}

	for _, h := range s.Holidays {
		if h.Date == dateStr {
			return eff, ClosedHoliday
		}
	}

	rule := utils.Find(s.OperatingHours, func(r model.OperatingHoursRule) bool {
		return r.DayGroup == group
	})
	if rule == nil || !rule.Enabled {
		return eff, ClosedDisabled
	}

	eff = *rule
	for _, d := range s.EarlyDismissals {
		if d.Date == dateStr {
			eff.CheckOutTime = d.Time
			break
		}
	}
	return eff, ""
}

// ValidateRule enforces the window geometry at settings-write time:
// check-out after check-in, and scanInStart <= scanOutStart <= scanOutEnd.
// Classification tolerates whatever it is given, so bad configs must never
// reach storage.
func ValidateRule(r model.OperatingHoursRule) error {
	for _, f := range []struct{ name, value string }{
		{"check_in_time", r.CheckInTime},
		{"check_out_time", r.CheckOutTime},
		{"scan_out_end_time", r.ScanOutEndTime},
	} {
		if _, err := time.Parse("15:04", f.value); err != nil {
			return fmt.Errorf("%s: %q is not a valid HH:MM time", f.name, f.value)
		}
	}
	if r.LateTolerance < 0 || r.ScanInBefore < 0 || r.ScanOutBefore < 0 {
		return fmt.Errorf("minute offsets must not be negative")
	}

	if ToMinutes(r.CheckOutTime) <= ToMinutes(r.CheckInTime) {
		return fmt.Errorf("check_out_time must be after check_in_time (%s)", r.DayGroup)
	}

	scanInStart := ToMinutes(r.CheckInTime) - r.ScanInBefore
	scanOutStart := ToMinutes(r.CheckOutTime) - r.ScanOutBefore
	scanOutEnd := ToMinutes(r.ScanOutEndTime)

	if scanInStart > scanOutStart {
		return fmt.Errorf("check-in window must open before the check-out window (%s)", r.DayGroup)
	}
	if scanOutStart > scanOutEnd {
		return fmt.Errorf("check-out window must open before scan_out_end_time (%s)", r.DayGroup)
	}
	return nil
}

// ValidateDismissal checks an early dismissal against the rule of its
// date's day group. The override shifts scanOutStart by the dismissal
// time; a dismissal early enough to pull it before scanInStart would
// erase the check-in window, so it must be rejected before storage.
func ValidateDismissal(d model.EarlyDismissal, s Settings) error {
	date, err := time.ParseInLocation("2006-01-02", d.Date, utils.JakartaTZ)
	if err != nil {
		return fmt.Errorf("date: %q is not a valid date", d.Date)
	}
	if _, err := time.Parse("15:04", d.Time); err != nil {
		return fmt.Errorf("time: %q is not a valid HH:MM time", d.Time)
	}

	group := DayGroupFor(date.Weekday())
	if group == "" {
		return fmt.Errorf("%s is a Sunday; attendance never runs", d.Date)
	}
	rule := utils.Find(s.OperatingHours, func(r model.OperatingHoursRule) bool {
		return r.DayGroup == group
	})
	if rule == nil {
		return nil
	}

	scanInStart := ToMinutes(rule.CheckInTime) - rule.ScanInBefore
	scanOutStart := ToMinutes(d.Time) - rule.ScanOutBefore
	if scanOutStart < scanInStart {
		return fmt.Errorf("dismissal at %s on %s would erase the check-in window", d.Time, d.Date)
	}
	if scanOutStart > ToMinutes(rule.ScanOutEndTime) {
		return fmt.Errorf("dismissal at %s on %s falls after scan_out_end_time", d.Time, d.Date)
	}
	return nil
}
