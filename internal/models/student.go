package models

import "time"

type Student struct {
	SID       int64     `gorm:"column:sid;primaryKey;autoIncrement" json:"sid"`
	CID       int64     `gorm:"column:cid;index;not null" json:"cid"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Student) TableName() string {
	return "student"
}
