package contract

const (
	MaxAttachmentSizeBytes = 10 * 1024 * 1024
	MaxAvatarSizeBytes     = 5 * 1024 * 1024
)

var (
	ValidAttachmentTypes = []string{"pdf", "txt", "md", "csv", "zip", "png", "jpg", "jpeg"}
	ValidAvatarTypes     = []string{"png", "jpg", "jpeg", "gif", "webp"}
)

type FileResponse struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// UserResponse only carries the fields the caller can read; the rest are omitted.
type UserResponse struct {
	ID              string        `json:"id"`
	Label           string        `json:"label"`
	Name            *string       `json:"name,omitempty"`
	TwitterID       *string       `json:"twitterId,omitempty"`
	TwitterUsername *string       `json:"twitterUsername,omitempty"`
	Affiliation     *string       `json:"affiliation,omitempty"`
	NoteIDs         []string      `json:"noteIds,omitempty"`
	Attachment      *FileResponse `json:"attachment,omitempty"`
	Avatar          *FileResponse `json:"avatar,omitempty"`
	CreatedAt       string        `json:"createdAt"`
	UpdatedAt       string        `json:"updatedAt"`
}

type CreateUserRequest struct {
	Name            string  `json:"name" validate:"required,min=1,max=120"`
	Email           *string `json:"email" validate:"omitempty,email,max=254"`
	Password        *string `json:"password" validate:"omitempty,min=8,max=72,hasdigit,hasupper,haslower" sanitize:"-"`
	TwitterID       *string `json:"twitterId" validate:"omitempty,max=64"`
	TwitterUsername *string `json:"twitterUsername" validate:"omitempty,max=64"`
	Affiliation     *string `json:"affiliation" validate:"omitempty,oneof=independent company university"`
}

// Fields lists the user fields the request writes.
func (r *CreateUserRequest) Fields() []string {
	fields := []string{"name"}
	return appendSet(fields, map[string]bool{
		"email":           r.Email != nil,
		"password":        r.Password != nil,
		"twitterId":       r.TwitterID != nil,
		"twitterUsername": r.TwitterUsername != nil,
		"affiliation":     r.Affiliation != nil,
	})
}

type UpdateUserRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=120"`
	Email           *string `json:"email" validate:"omitempty,email,max=254"`
	Password        *string `json:"password" validate:"omitempty,min=8,max=72,hasdigit,hasupper,haslower" sanitize:"-"`
	TwitterID       *string `json:"twitterId" validate:"omitempty,max=64"`
	TwitterUsername *string `json:"twitterUsername" validate:"omitempty,max=64"`
	Affiliation     *string `json:"affiliation" validate:"omitempty,oneof=independent company university"`
}

func (r *UpdateUserRequest) Fields() []string {
	return appendSet(nil, map[string]bool{
		"name":            r.Name != nil,
		"email":           r.Email != nil,
		"password":        r.Password != nil,
		"twitterId":       r.TwitterID != nil,
		"twitterUsername": r.TwitterUsername != nil,
		"affiliation":     r.Affiliation != nil,
	})
}
