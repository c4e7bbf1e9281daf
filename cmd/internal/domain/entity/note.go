package entity

type Note struct {
	ID        string  `gorm:"primaryKey"`
	Note      string  `gorm:"not null"`
	UserID    *string `gorm:"index"` // References: users(id)
	CreatedAt int64   `gorm:"not null;autoCreateTime:false"`
	UpdatedAt int64   `gorm:"not null;autoUpdateTime:false"`

	// Relations
	User *User `gorm:"foreignKey:UserID;references:ID"`
}

func (n *Note) ItemID() string {
	return n.ID
}

func (n *Note) Ref(field string) (string, bool) {
	if field == "user" && n.UserID != nil && *n.UserID != "" {
		return *n.UserID, true
	}
	return "", false
}

func (n *Note) TextValue(field string) (string, bool) {
	if field == "note" {
		return n.Note, true
	}
	return "", false
}
