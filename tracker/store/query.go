package store

import (
	"context"

	"presensi.app/presensi/tracker/model"
)

// LogQuery filters the admin log search. Zero values mean "no filter".
type LogQuery struct {
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	ClassName string `json:"class_name,omitempty"`
	Status    string `json:"status,omitempty"`
	Type      string `json:"type,omitempty"`
	StudentID uint   `json:"student_id,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

const (
	defaultSearchLimit = 50
	maxSearchLimit     = 500
)

func (s *GormStore) SearchLogs(ctx context.Context, q LogQuery) ([]model.AttendanceLog, int64, error) {
	db := s.db.WithContext(ctx).Model(&model.AttendanceLog{})

	if q.From != "" {
		db = db.Where("date >= ?", q.From)
	}
	if q.To != "" {
		db = db.Where("date <= ?", q.To)
	}
	if q.ClassName != "" {
		db = db.Where("class_name = ?", q.ClassName)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.Type != "" {
		db = db.Where("type = ?", q.Type)
	}
	if q.StudentID != 0 {
		db = db.Where("student_id = ?", q.StudentID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	var logs []model.AttendanceLog
	err := db.Order("date DESC, timestamp DESC").
		Limit(limit).
		Offset(q.Offset).
		Find(&logs).Error
	return logs, total, err
}

// LogsForRange returns all logs between two civil dates inclusive, ordered
// for report rendering.
func (s *GormStore) LogsForRange(ctx context.Context, from, to string) ([]model.AttendanceLog, error) {
	var logs []model.AttendanceLog
	err := s.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date, class_name, student_name, timestamp").
		Find(&logs).Error
	return logs, err
}

func (s *GormStore) ListStudents(ctx context.Context, classID uint) ([]model.Student, error) {
	db := s.db.WithContext(ctx).Preload("Class").Order("name")
	if classID != 0 {
		db = db.Where("class_id = ?", classID)
	}
	var students []model.Student
	err := db.Find(&students).Error
	return students, err
}

func (s *GormStore) UpdateStudentPhoto(ctx context.Context, studentID uint, url string) error {
	return s.db.WithContext(ctx).
		Model(&model.Student{}).
		Where("id = ?", studentID).
		Update("photo_url", url).Error
}
