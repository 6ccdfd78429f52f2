package models

import "time"

// One row per rate-limit scope ("global", "auth", "read", "write", ...)
type RateLimitConfig struct {
	Key         string    `gorm:"primaryKey" json:"key"`
	WindowMs    int64     `gorm:"not null" json:"window_ms"`
	MaxRequests int       `gorm:"not null" json:"max_requests"`
	Description string    `json:"description"`
	Enabled     bool      `gorm:"default:true" json:"enabled"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (RateLimitConfig) TableName() string {
	return "rate_limit_config"
}
