package contract

import (
	"slices"

	"simplecms/cmd/internal/domain/schema"
)

type PostResponse struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Name       string   `json:"name"`
	Slug       string   `json:"slug"`
	Status     string   `json:"status"`
	Author     *string  `json:"author"`
	Categories []string `json:"categories"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

// CreatePostRequest defaults Author to the signed-in caller when omitted.
type CreatePostRequest struct {
	Name       string   `json:"name" validate:"required,min=1,max=200"`
	Slug       string   `json:"slug" validate:"required,max=200,slug"`
	Status     *string  `json:"status" validate:"omitempty,oneof=draft published"`
	Author     *string  `json:"author" validate:"omitempty,max=32"`
	Categories []string `json:"categories" validate:"omitempty,max=50,nodupes,dive,required,max=32"`
}

func (r *CreatePostRequest) Fields() []string {
	return appendSet([]string{"name", "slug", "author"}, map[string]bool{
		"status":     r.Status != nil,
		"categories": r.Categories != nil,
	})
}

// UpdatePostRequest replaces the category links when Categories is present, even if empty.
type UpdatePostRequest struct {
	Name       *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Slug       *string  `json:"slug" validate:"omitempty,max=200,slug"`
	Status     *string  `json:"status" validate:"omitempty,oneof=draft published"`
	Author     *string  `json:"author" validate:"omitempty,max=32"`
	Categories []string `json:"categories" validate:"omitempty,max=50,nodupes,dive,required,max=32"`
}

func (r *UpdatePostRequest) Fields() []string {
	return appendSet(nil, map[string]bool{
		"name":       r.Name != nil,
		"slug":       r.Slug != nil,
		"status":     r.Status != nil,
		"author":     r.Author != nil,
		"categories": r.Categories != nil,
	})
}

type CategoryResponse struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"createdAt"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
	Slug string `json:"slug" validate:"required,max=120,slug"`
}

type UpdateCategoryRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=120"`
	Slug *string `json:"slug" validate:"omitempty,max=120,slug"`
}

func (r *UpdateCategoryRequest) Fields() []string {
	return appendSet(nil, map[string]bool{
		"name": r.Name != nil,
		"slug": r.Slug != nil,
	})
}

const MaxNoteLength = 10000

type NoteResponse struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Note      string  `json:"note"`
	User      *string `json:"user"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// CreateNoteRequest defaults User to the signed-in caller when omitted.
type CreateNoteRequest struct {
	Note string  `json:"note" validate:"required,max=10000"`
	User *string `json:"user" validate:"omitempty,max=32"`
}

type UpdateNoteRequest struct {
	Note *string `json:"note" validate:"omitempty,max=10000"`
	User *string `json:"user" validate:"omitempty,max=32"`
}

func (r *UpdateNoteRequest) Fields() []string {
	return appendSet(nil, map[string]bool{
		"note": r.Note != nil,
		"user": r.User != nil,
	})
}

type FieldSchemaResponse struct {
	Name         string              `json:"name"`
	Kind         string              `json:"kind"`
	Required     bool                `json:"required"`
	Unique       bool                `json:"unique"`
	Options      []string            `json:"options,omitempty"`
	Default      string              `json:"default,omitempty"`
	Ref          string              `json:"ref,omitempty"`
	Many         bool                `json:"many,omitempty"`
	Capabilities schema.Capabilities `json:"capabilities"`
}

type ListSchemaResponse struct {
	Key        string                 `json:"key"`
	Path       string                 `json:"path"`
	LabelField string                 `json:"labelField"`
	Fields     []*FieldSchemaResponse `json:"fields"`
}

// appendSet appends the names flagged true in a stable, sorted order.
func appendSet(fields []string, set map[string]bool) []string {
	start := len(fields)
	for name, ok := range set {
		if ok {
			fields = append(fields, name)
		}
	}
	slices.Sort(fields[start:])
	return fields
}
