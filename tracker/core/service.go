package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"presensi.app/presensi/tracker/model"
	"presensi.app/presensi/utils"
)

// ErrDuplicateLog is returned by Store implementations when an append
// violates the per-(student, date, type) uniqueness guarantee.
var ErrDuplicateLog = errors.New("duplicate attendance log")

// Store is the storage collaborator. Both the MySQL-backed store and the
// in-memory test store implement it, so the decision logic exists once.
type Store interface {
	// The student finders return (nil, nil) when no student matches;
	// errors are reserved for infrastructure failures. The returned
	// student has its Class association populated.
	FindStudentByRfid(ctx context.Context, uid string) (*model.Student, error)
	FindStudentByNIS(ctx context.Context, nis string) (*model.Student, error)
	FindStudentByID(ctx context.Context, id uint) (*model.Student, error)

	LogsForStudent(ctx context.Context, studentID uint, date string) ([]model.AttendanceLog, error)
	LogsForDate(ctx context.Context, date string) ([]model.AttendanceLog, error)

	AppendLog(ctx context.Context, log *model.AttendanceLog) error
	AppendLogs(ctx context.Context, logs []model.AttendanceLog) error

	// Settings returns the current configuration, creating the defaults on
	// first access.
	Settings(ctx context.Context) (Settings, error)
}

type ScanRequest struct {
	RfidUID string
	NIS     string
	// At overrides the scan timestamp for offline kiosk imports; nil means
	// the service clock.
	At *time.Time
}

type ScanResult struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	Log     *model.AttendanceLog `json:"log,omitempty"`
}

type SweepStats struct {
	Date     string   `json:"date"`
	Created  int      `json:"created"`
	Students []string `json:"students,omitempty"`
}

type Service struct {
	store Store
	locks KeyedMutex
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: utils.JakartaNow}
}

// WithClock replaces the service clock. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// RecordScan resolves the identifier, evaluates the scan and persists the
// resulting log. Rejections come back as an unsuccessful ScanResult; an
// error means a storage failure and nothing was written.
func (s *Service) RecordScan(ctx context.Context, req ScanRequest) (ScanResult, error) {
	if req.RfidUID == "" && req.NIS == "" {
		return ScanResult{Message: "rfid_uid or nis is required"}, nil
	}

	// RFID first, NIS as the fallback. Offline imports set both to the
	// same identifier since the kiosk export does not say which it is.
	var student *model.Student
	var err error
	if req.RfidUID != "" {
		student, err = s.store.FindStudentByRfid(ctx, req.RfidUID)
		if err != nil {
			return ScanResult{}, fmt.Errorf("student lookup: %w", err)
		}
	}
	if student == nil && req.NIS != "" {
		student, err = s.store.FindStudentByNIS(ctx, req.NIS)
		if err != nil {
			return ScanResult{}, fmt.Errorf("student lookup: %w", err)
		}
	}
	if student == nil {
		return ScanResult{Message: rejectMessages[RejectUnknownCard]}, nil
	}

	settings, err := s.store.Settings(ctx)
	if err != nil {
		return ScanResult{}, fmt.Errorf("load settings: %w", err)
	}

	now := s.now()
	if req.At != nil {
		now = req.At.In(utils.JakartaTZ)
	}
	date := utils.CivilDate(now)

	unlock := s.locks.Lock(fmt.Sprintf("%d|%s", student.ID, date))
	defer unlock()

	todays, err := s.store.LogsForStudent(ctx, student.ID, date)
	if err != nil {
		return ScanResult{}, fmt.Errorf("load today's logs: %w", err)
	}

	decision := Decide(*student, student.Class.Name, now, todays, settings)
	if !decision.Accepted {
		return ScanResult{Message: decision.Message}, nil
	}

	if err := s.store.AppendLog(ctx, decision.Log); err != nil {
		if errors.Is(err, ErrDuplicateLog) {
			// Lost a race with another writer; report it as the ordinary
			// duplicate rejection.
			reason := RejectAlreadyIn
			if decision.Log.Type == TypeOut {
				reason = RejectAlreadyOut
			}
			return ScanResult{Message: reject(reason, student.Name).Message}, nil
		}
		return ScanResult{}, fmt.Errorf("append log: %w", err)
	}

	return ScanResult{Success: true, Message: decision.Message, Log: decision.Log}, nil
}

// RecordManualStatus records a terminal absent/sick/permit status for a
// student, entered by an administrator rather than a kiosk scan.
func (s *Service) RecordManualStatus(ctx context.Context, studentID uint, date, status string) (ScanResult, error) {
	switch status {
	case StatusAbsent, StatusSick, StatusPermit:
	default:
		return ScanResult{Message: fmt.Sprintf("status %q cannot be recorded manually", status)}, nil
	}

	student, err := s.store.FindStudentByID(ctx, studentID)
	if err != nil {
		return ScanResult{}, fmt.Errorf("student lookup: %w", err)
	}
	if student == nil {
		return ScanResult{Message: "student not found"}, nil
	}

	unlock := s.locks.Lock(fmt.Sprintf("%d|%s", studentID, date))
	defer unlock()

	todays, err := s.store.LogsForStudent(ctx, studentID, date)
	if err != nil {
		return ScanResult{}, fmt.Errorf("load today's logs: %w", err)
	}
	if len(todays) > 0 {
		return ScanResult{Message: fmt.Sprintf("%s already has attendance recorded today", student.Name)}, nil
	}

	ts := utils.MustParseDate(date)
	log := newLog(*student, student.Class.Name, ts, TypeIn, status)
	if err := s.store.AppendLog(ctx, &log); err != nil {
		if errors.Is(err, ErrDuplicateLog) {
			return ScanResult{Message: fmt.Sprintf("%s already has attendance recorded today", student.Name)}, nil
		}
		return ScanResult{}, fmt.Errorf("append log: %w", err)
	}
	return ScanResult{Success: true, Message: fmt.Sprintf("Recorded %s for %s", status, student.Name), Log: &log}, nil
}

// Sweep backfills missing checkouts for today. Errors are returned to the
// runner, which logs and waits for the next tick; a failed sweep never
// partially writes because the append is one batched operation.
func (s *Service) Sweep(ctx context.Context) (SweepStats, error) {
	now := s.now()
	stats := SweepStats{Date: utils.CivilDate(now)}

	settings, err := s.store.Settings(ctx)
	if err != nil {
		return stats, fmt.Errorf("load settings: %w", err)
	}

	todays, err := s.store.LogsForDate(ctx, stats.Date)
	if err != nil {
		return stats, fmt.Errorf("load logs: %w", err)
	}

	missing := MissingCheckouts(now, settings, todays)
	if len(missing) == 0 {
		return stats, nil
	}

	if err := s.store.AppendLogs(ctx, missing); err != nil {
		return stats, fmt.Errorf("append synthesized logs: %w", err)
	}

	stats.Created = len(missing)
	stats.Students = utils.Map(missing, func(l model.AttendanceLog) string { return l.StudentName })
	return stats, nil
}
