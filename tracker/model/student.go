package model

import "time"

type Student struct {
	ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	NIS      string  `gorm:"column:nis;size:20;uniqueIndex;not null" json:"nis"`
	Name     string  `gorm:"size:100;not null" json:"name"`
	ClassID  uint    `gorm:"index;not null" json:"class_id"`
	RfidUID  *string `gorm:"column:rfid_uid;size:32;uniqueIndex" json:"rfid_uid,omitempty"`
	PhotoURL *string `gorm:"size:255" json:"photo_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Class SchoolClass `gorm:"foreignKey:ClassID;references:ID" json:"class"`
}

func (Student) TableName() string {
	return "students"
}
