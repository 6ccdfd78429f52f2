package models

import "time"

const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
)

type Admin struct {
	AID          int64     `gorm:"column:aid;primaryKey;autoIncrement" json:"aid"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"default:'admin'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Admin) TableName() string {
	return "admin"
}

// Assignment of an admin to a class it may manage
type AdminClass struct {
	AID int64 `gorm:"column:aid;primaryKey" json:"aid"`
	CID int64 `gorm:"column:cid;primaryKey" json:"cid"`
}

func (AdminClass) TableName() string {
	return "admin_class"
}
