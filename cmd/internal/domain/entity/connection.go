package entity

import "time"

const (
	HeartbeatPeriod    = 60 * time.Second
	HeartbeatTolerance = 10 * time.Second

	// ConnectionMaxAge matches the API Gateway websocket connection limit.
	ConnectionMaxAge = 2 * time.Hour

	HeartbeatPeriodMillis    = int64(60 * 1000)
	HeartbeatToleranceMillis = int64(10 * 1000)
)

// Connection is a live realtime connection. ItemID is empty for anonymous listeners.
type Connection struct {
	ConnectionID    string `gorm:"primaryKey;autoIncrement:false"`
	ItemID          string `gorm:"not null;default:'';index"`
	ExpiresAt       int64  `gorm:"not null"`
	LastHeartbeatAt int64  `gorm:"not null;index"`
	CreatedAt       int64  `gorm:"not null"`
}
