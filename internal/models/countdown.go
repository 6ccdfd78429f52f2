package models

import "time"

type Countdown struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CID        int64     `gorm:"column:cid;index;not null" json:"cid"`
	Title      string    `gorm:"not null" json:"title"`
	TargetDate time.Time `json:"target_date"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Countdown) TableName() string {
	return "countdown"
}
