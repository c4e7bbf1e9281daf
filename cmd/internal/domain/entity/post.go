package entity

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

type Post struct {
	ID        string     `gorm:"primaryKey"`
	Name      string     `gorm:"not null"`
	Slug      string     `gorm:"not null;uniqueIndex"`
	Status    PostStatus `gorm:"not null;default:'draft'"`
	AuthorID  *string    `gorm:"index"` // References: users(id)
	CreatedAt int64      `gorm:"not null;autoCreateTime:false"`
	UpdatedAt int64      `gorm:"not null;autoUpdateTime:false"`

	// Relations
	Author     *User           `gorm:"foreignKey:AuthorID;references:ID"`
	Categories []*PostCategory `gorm:"many2many:post_category_links"`
}

func (p *Post) ItemID() string {
	return p.ID
}

func (p *Post) Ref(field string) (string, bool) {
	if field == "author" && p.AuthorID != nil && *p.AuthorID != "" {
		return *p.AuthorID, true
	}
	return "", false
}

// CategoryIDs returns the ids of the loaded categories, in load order.
func (p *Post) CategoryIDs() []string {
	ids := make([]string, len(p.Categories))
	for i, c := range p.Categories {
		ids[i] = c.ID
	}
	return ids
}

func (p *Post) TextValue(field string) (string, bool) {
	switch field {
	case "name":
		return p.Name, true
	case "slug":
		return p.Slug, true
	case "status":
		return string(p.Status), true
	}
	return "", false
}
