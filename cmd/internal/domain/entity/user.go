package entity

type Affiliation string

const (
	AffiliationNone        Affiliation = ""
	AffiliationIndependent Affiliation = "independent"
	AffiliationCompany     Affiliation = "company"
	AffiliationUniversity  Affiliation = "university"
)

// User is the only list people can sign in through.
type User struct {
	ID              string      `gorm:"primaryKey"`
	Name            string      `gorm:"not null"`
	Email           string      `gorm:"not null;default:'';index"`
	PasswordHash    string      `gorm:"not null;default:''"`
	TwitterID       string      `gorm:"not null;default:'';index"`
	TwitterUsername string      `gorm:"not null;default:''"`
	Affiliation     Affiliation `gorm:"not null;default:''"`
	AttachmentKey   string      `gorm:"not null;default:''"`
	AttachmentName  string      `gorm:"not null;default:''"`
	AvatarKey       string      `gorm:"not null;default:''"`
	CreatedAt       int64       `gorm:"not null;autoCreateTime:false"`
	UpdatedAt       int64       `gorm:"not null;autoUpdateTime:false"`

	// Relations
	Notes []*Note `gorm:"foreignKey:UserID;references:ID"`
}

func (u *User) ItemID() string {
	return u.ID
}

// Ref always misses: users own nothing through their own fields.
func (u *User) Ref(string) (string, bool) {
	return "", false
}

func (u *User) TextValue(field string) (string, bool) {
	switch field {
	case "name":
		return u.Name, true
	case "twitterUsername":
		return u.TwitterUsername, true
	}
	return "", false
}
