package model

import "time"

type SchoolClass struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Homeroom string `gorm:"size:100" json:"homeroom"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (SchoolClass) TableName() string {
	return "school_classes"
}
