package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"presensi.app/presensi/tracker/model"
	"presensi.app/presensi/utils"
)

const (
	TypeIn  = "in"
	TypeOut = "out"
)

const (
	StatusOnTime     = "on-time"
	StatusLate       = "late"
	StatusLeftEarly  = "left-early"
	StatusAbsent     = "absent"
	StatusSick       = "sick"
	StatusPermit     = "permit"
	StatusNoCheckout = "no-checkout"
)

type RejectReason string

const (
	RejectHoliday      RejectReason = "holiday"
	RejectDayClosed    RejectReason = "unavailable-today"
	RejectNoSchedule   RejectReason = "unavailable-now"
	RejectWindowClosed RejectReason = "window-closed"
	RejectAlreadyIn    RejectReason = "already-checked-in"
	RejectAlreadyOut   RejectReason = "already-checked-out"
	RejectNotCheckedIn RejectReason = "not-checked-in-yet"
	RejectDayRecorded  RejectReason = "already-recorded"
	RejectUnknownCard  RejectReason = "not-recognized"
)

var rejectMessages = map[RejectReason]string{
	RejectHoliday:      "Attendance is closed today (holiday)",
	RejectDayClosed:    "Attendance is not available today",
	RejectNoSchedule:   "Attendance is not available right now",
	RejectWindowClosed: "The scan window is closed right now",
	RejectAlreadyIn:    "%s has already checked in today",
	RejectAlreadyOut:   "%s has already checked out today",
	RejectNotCheckedIn: "%s has not checked in yet today",
	RejectDayRecorded:  "Attendance for %s is already recorded today",
	RejectUnknownCard:  "card/nis not recognized",
}

// Decision is the outcome of evaluating a single scan. Rejections are
// values, not errors; only collaborator failures surface as errors.
type Decision struct {
	Accepted bool
	Reason   RejectReason
	Message  string
	Log      *model.AttendanceLog
}

func reject(reason RejectReason, studentName string) Decision {
	msg := rejectMessages[reason]
	if studentName != "" {
		msg = fmt.Sprintf(msg, studentName)
	}
	return Decision{Reason: reason, Message: msg}
}

// Decide evaluates one scan for a student against today's schedule and the
// student's existing logs for the day. It is pure: the caller owns fetching
// the logs and persisting the emitted one.
//
// Late and left-early boundaries compare the full timestamp, not the
// truncated minute: a check-in one second past the late deadline is late.
func Decide(student model.Student, className string, now time.Time, todaysLogs []model.AttendanceLog, settings Settings) Decision {
	local := now.In(utils.JakartaTZ)

	eff, closed := ResolveEffectiveHours(local, settings)
	if closed != "" {
		return reject(RejectReason(closed), "")
	}

	period := Classify(MinuteOfDay(local), eff)
	if period == PeriodClosed {
		return reject(RejectWindowClosed, "")
	}

	inLog := utils.Find(todaysLogs, func(l model.AttendanceLog) bool { return l.Type == TypeIn })
	if inLog != nil && IsTerminalStatus(inLog.Status) {
		return reject(RejectDayRecorded, student.Name)
	}
	hasIn := inLog != nil
	hasOut := hasLogOfType(todaysLogs, TypeOut)

	switch period {
	case PeriodCheckIn:
		if hasIn {
			return reject(RejectAlreadyIn, student.Name)
		}
		status := StatusOnTime
		lateDeadline := ParseTimeOnDate(local, eff.CheckInTime).Add(time.Duration(eff.LateTolerance) * time.Minute)
		if local.After(lateDeadline) {
			status = StatusLate
		}
		log := newLog(student, className, local, TypeIn, status)
		return Decision{
			Accepted: true,
			Message:  fmt.Sprintf("Welcome, %s! Checked in at %s (%s)", student.Name, local.Format("15:04"), status),
			Log:      &log,
		}

	default: // PeriodCheckOut
		if !hasIn {
			return reject(RejectNotCheckedIn, student.Name)
		}
		if hasOut {
			return reject(RejectAlreadyOut, student.Name)
		}
		status := StatusOnTime
		if local.Before(ParseTimeOnDate(local, eff.CheckOutTime)) {
			status = StatusLeftEarly
		}
		log := newLog(student, className, local, TypeOut, status)
		return Decision{
			Accepted: true,
			Message:  fmt.Sprintf("Goodbye, %s! Checked out at %s (%s)", student.Name, local.Format("15:04"), status),
			Log:      &log,
		}
	}
}

// IsTerminalStatus reports whether a status was recorded manually.
// Absent, sick and permit days are terminal: neither a card tap nor the
// sweeper ever changes them.
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusAbsent, StatusSick, StatusPermit:
		return true
	}
	return false
}

func hasLogOfType(logs []model.AttendanceLog, logType string) bool {
	return utils.Find(logs, func(l model.AttendanceLog) bool { return l.Type == logType }) != nil
}

func newLog(student model.Student, className string, ts time.Time, logType, status string) model.AttendanceLog {
	photo := ""
	if student.PhotoURL != nil {
		photo = *student.PhotoURL
	}
	return model.AttendanceLog{
		ID:              uuid.NewString(),
		StudentID:       student.ID,
		Date:            utils.CivilDate(ts),
		Type:            logType,
		StudentName:     student.Name,
		StudentPhotoURL: photo,
		ClassName:       className,
		Timestamp:       ts,
		Status:          status,
	}
}
