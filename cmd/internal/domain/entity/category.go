package entity

type PostCategory struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Slug      string `gorm:"not null;uniqueIndex"`
	CreatedAt int64  `gorm:"not null;autoCreateTime:false"`
}

func (c *PostCategory) ItemID() string {
	return c.ID
}

func (c *PostCategory) Ref(string) (string, bool) {
	return "", false
}

func (c *PostCategory) TextValue(field string) (string, bool) {
	switch field {
	case "name":
		return c.Name, true
	case "slug":
		return c.Slug, true
	}
	return "", false
}
