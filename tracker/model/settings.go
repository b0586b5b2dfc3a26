package model

import "time"

// Day groups for operating hours. Sunday has no group and is always closed.
const (
	DayGroupMonThu = "mon-thu"
	DayGroupFri    = "fri"
	DayGroupSat    = "sat"
)

// OperatingHoursRule describes the scan windows for one day group.
// Times are civil "HH:MM" strings, offsets are minutes.
type OperatingHoursRule struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	DayGroup string `gorm:"size:10;uniqueIndex;not null" json:"day_group"`

	CheckInTime    string `gorm:"size:5;not null" json:"check_in_time"`
	CheckOutTime   string `gorm:"size:5;not null" json:"check_out_time"`
	LateTolerance  int    `gorm:"not null" json:"late_tolerance"`
	ScanInBefore   int    `gorm:"not null" json:"scan_in_before"`
	ScanOutBefore  int    `gorm:"not null" json:"scan_out_before"`
	ScanOutEndTime string `gorm:"size:5;not null" json:"scan_out_end_time"`
	Enabled        bool   `gorm:"not null" json:"enabled"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (OperatingHoursRule) TableName() string {
	return "operating_hours_rules"
}

// Holiday fully closes attendance on its date.
type Holiday struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Date string `gorm:"size:10;uniqueIndex;not null" json:"date"`
	Name string `gorm:"size:100" json:"name"`
}

func (Holiday) TableName() string {
	return "holidays"
}

// EarlyDismissal overrides the effective check-out time on its date.
// It does not touch the scan-out geometry of the underlying rule.
type EarlyDismissal struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Date string `gorm:"size:10;uniqueIndex;not null" json:"date"`
	Time string `gorm:"size:5;not null" json:"time"`
}

func (EarlyDismissal) TableName() string {
	return "early_dismissals"
}
