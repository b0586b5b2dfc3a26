package core

import "presensi.app/presensi/tracker/model"

type Period int

const (
	PeriodClosed Period = iota
	PeriodCheckIn
	PeriodCheckOut
)

func (p Period) String() string {
	switch p {
	case PeriodCheckIn:
		return "check-in"
	case PeriodCheckOut:
		return "check-out"
	}
	return "closed"
}

// Classify places a minute-of-day inside the effective scan windows.
//
//	[scanInStart, scanOutStart)  -> check-in
//	[scanOutStart, scanOutEnd]   -> check-out
//	anything else                -> closed
//
// The in-window's exclusive upper bound equals the out-window's inclusive
// lower bound, so the two windows partition the open range without gap or
// overlap as long as scanInStart <= scanOutStart <= scanOutEnd (enforced by
// ValidateRule at settings-write time).
func Classify(currentMinutes int, eff model.OperatingHoursRule) Period {
	scanInStart := ToMinutes(eff.CheckInTime) - eff.ScanInBefore
	scanOutStart := ToMinutes(eff.CheckOutTime) - eff.ScanOutBefore
	scanOutEnd := ToMinutes(eff.ScanOutEndTime)

	switch {
	case currentMinutes >= scanInStart && currentMinutes < scanOutStart:
		return PeriodCheckIn
	case currentMinutes >= scanOutStart && currentMinutes <= scanOutEnd:
		return PeriodCheckOut
	}
	return PeriodClosed
}
