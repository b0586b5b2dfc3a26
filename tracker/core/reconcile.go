package core

import (
	"time"

	"github.com/google/uuid"
	"presensi.app/presensi/tracker/model"
	"presensi.app/presensi/utils"
)

// SweepBufferMinutes keeps the sweep from racing a student who taps their
// card at the exact closing second of the scan-out window.
const SweepBufferMinutes = 3

// MissingCheckouts derives the synthetic "forgot to check out" logs for a
// day from its current log set. It returns nil while the day is closed or
// the scan-out window has not fully passed.
//
// Because "missing" is re-derived from the logs on every call, a synthetic
// out row inserted by a previous sweep satisfies "has out" on the next one.
// The sweep is idempotent by content, not by run tracking.
func MissingCheckouts(now time.Time, settings Settings, todaysLogs []model.AttendanceLog) []model.AttendanceLog {
	local := now.In(utils.JakartaTZ)

	eff, closed := ResolveEffectiveHours(local, settings)
	if closed != "" {
		return nil
	}

	scanOutEnd := ToMinutes(eff.ScanOutEndTime)
	if MinuteOfDay(local) <= scanOutEnd+SweepBufferMinutes {
		return nil
	}

	var synthesized []model.AttendanceLog
	for _, logs := range utils.GroupBy(todaysLogs, func(l model.AttendanceLog) uint { return l.StudentID }) {
		in := utils.Find(logs, func(l model.AttendanceLog) bool { return l.Type == TypeIn })
		out := utils.Find(logs, func(l model.AttendanceLog) bool { return l.Type == TypeOut })
		if in == nil || out != nil {
			continue
		}
		// The student was never in the building on a manual status day,
		// so there is nothing to close.
		if IsTerminalStatus(in.Status) {
			continue
		}
		// Denormalized fields come from the in log, not a fresh student
		// lookup: the log must reflect the student as they were that day.
		synthesized = append(synthesized, model.AttendanceLog{
			ID:              uuid.NewString(),
			StudentID:       in.StudentID,
			Date:            in.Date,
			Type:            TypeOut,
			StudentName:     in.StudentName,
			StudentPhotoURL: in.StudentPhotoURL,
			ClassName:       in.ClassName,
			Timestamp:       local,
			Status:          StatusNoCheckout,
		})
	}
	return synthesized
}
