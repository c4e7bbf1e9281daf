package entity

// Session is the server-side half of a signed session cookie.
// Deleting the row signs the cookie holder out even if the cookie itself is still valid.
type Session struct {
	ID        string `gorm:"primaryKey"`
	ListKey   string `gorm:"not null"`
	ItemID    string `gorm:"not null;index"`
	ExpiresAt int64  `gorm:"not null;index"`
	CreatedAt int64  `gorm:"not null;autoCreateTime:false"`
}
