package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	tracker "presensi.app/presensi/tracker/core"
	"presensi.app/presensi/tracker/model"
)

// GormStore is the MySQL-backed storage collaborator. It expects a *gorm.DB
// opened with TranslateError so unique-index violations surface as
// gorm.ErrDuplicatedKey.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates the tracker tables, including the composite unique
// index on attendance_logs that backs the at-most-one-per-day guarantee.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		&model.SchoolClass{},
		&model.Student{},
		&model.AttendanceLog{},
		&model.OperatingHoursRule{},
		&model.Holiday{},
		&model.EarlyDismissal{},
	)
}

func (s *GormStore) findStudent(ctx context.Context, query string, args ...interface{}) (*model.Student, error) {
	var student model.Student
	err := s.db.WithContext(ctx).Preload("Class").Where(query, args...).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *GormStore) FindStudentByRfid(ctx context.Context, uid string) (*model.Student, error) {
	return s.findStudent(ctx, "rfid_uid = ?", uid)
}

func (s *GormStore) FindStudentByNIS(ctx context.Context, nis string) (*model.Student, error) {
	return s.findStudent(ctx, "nis = ?", nis)
}

func (s *GormStore) FindStudentByID(ctx context.Context, id uint) (*model.Student, error) {
	return s.findStudent(ctx, "id = ?", id)
}

func (s *GormStore) LogsForStudent(ctx context.Context, studentID uint, date string) ([]model.AttendanceLog, error) {
	var logs []model.AttendanceLog
	err := s.db.WithContext(ctx).
		Where("student_id = ? AND date = ?", studentID, date).
		Find(&logs).Error
	return logs, err
}

func (s *GormStore) LogsForDate(ctx context.Context, date string) ([]model.AttendanceLog, error) {
	var logs []model.AttendanceLog
	err := s.db.WithContext(ctx).
		Where("date = ?", date).
		Order("timestamp").
		Find(&logs).Error
	return logs, err
}

func (s *GormStore) AppendLog(ctx context.Context, log *model.AttendanceLog) error {
	err := s.db.WithContext(ctx).Create(log).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return tracker.ErrDuplicateLog
	}
	return err
}

func (s *GormStore) AppendLogs(ctx context.Context, logs []model.AttendanceLog) error {
	if len(logs) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Create(&logs).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return tracker.ErrDuplicateLog
	}
	return err
}

// Settings assembles the configuration, creating the default rules on first
// access so the lazy-defaults behaviour happens in exactly one place.
func (s *GormStore) Settings(ctx context.Context) (tracker.Settings, error) {
	var settings tracker.Settings

	if err := s.ensureDefaultRules(ctx); err != nil {
		return settings, err
	}

	if err := s.db.WithContext(ctx).Order("id").Find(&settings.OperatingHours).Error; err != nil {
		return settings, fmt.Errorf("load operating hours: %w", err)
	}
	if err := s.db.WithContext(ctx).Find(&settings.Holidays).Error; err != nil {
		return settings, fmt.Errorf("load holidays: %w", err)
	}
	if err := s.db.WithContext(ctx).Find(&settings.EarlyDismissals).Error; err != nil {
		return settings, fmt.Errorf("load early dismissals: %w", err)
	}
	return settings, nil
}

func (s *GormStore) ensureDefaultRules(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.OperatingHoursRule{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count operating hours: %w", err)
	}
	if count > 0 {
		return nil
	}
	defaults := DefaultOperatingHours()
	if err := s.db.WithContext(ctx).Create(&defaults).Error; err != nil {
		// Another instance may have seeded concurrently.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("seed operating hours: %w", err)
	}
	return nil
}

func (s *GormStore) SaveOperatingHours(ctx context.Context, rules []model.OperatingHoursRule) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rules {
			err := tx.Model(&model.OperatingHoursRule{}).
				Where("day_group = ?", rules[i].DayGroup).
				Select("check_in_time", "check_out_time", "late_tolerance",
					"scan_in_before", "scan_out_before", "scan_out_end_time", "enabled").
				Updates(&rules[i]).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) ReplaceHolidays(ctx context.Context, holidays []model.Holiday) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Holiday{}).Error; err != nil {
			return err
		}
		if len(holidays) == 0 {
			return nil
		}
		return tx.Create(&holidays).Error
	})
}

func (s *GormStore) ReplaceEarlyDismissals(ctx context.Context, dismissals []model.EarlyDismissal) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.EarlyDismissal{}).Error; err != nil {
			return err
		}
		if len(dismissals) == 0 {
			return nil
		}
		return tx.Create(&dismissals).Error
	})
}

// DefaultOperatingHours are the rules seeded on first settings access.
func DefaultOperatingHours() []model.OperatingHoursRule {
	return []model.OperatingHoursRule{
		{
			DayGroup:       model.DayGroupMonThu,
			CheckInTime:    "07:00",
			CheckOutTime:   "13:00",
			LateTolerance:  15,
			ScanInBefore:   60,
			ScanOutBefore:  15,
			ScanOutEndTime: "15:00",
			Enabled:        true,
		},
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
	}
}
