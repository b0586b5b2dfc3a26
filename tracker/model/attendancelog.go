package model

import "time"

// AttendanceLog is immutable once created. Student name, photo and class
// name are denormalized at creation time so historical reports are stable
// against later student edits.
//
// The composite unique index is the write-side guarantee that a student can
// have at most one "in" and one "out" row per civil date.
type AttendanceLog struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	StudentID uint   `gorm:"uniqueIndex:idx_student_date_type,priority:1;not null" json:"student_id"`
	Date      string `gorm:"size:10;uniqueIndex:idx_student_date_type,priority:2;not null" json:"date"`
	Type      string `gorm:"size:3;uniqueIndex:idx_student_date_type,priority:3;not null" json:"type"`

	StudentName     string `gorm:"size:100;not null" json:"student_name"`
	StudentPhotoURL string `gorm:"size:255" json:"student_photo_url"`
	ClassName       string `gorm:"size:50" json:"class_name"`

	Timestamp time.Time `gorm:"not null" json:"timestamp"`
	Status    string    `gorm:"size:20;not null" json:"status"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;<-:create" json:"created_at"`
}

func (AttendanceLog) TableName() string {
	return "attendance_logs"
}
