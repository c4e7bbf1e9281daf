package schema

import (
	"simplecms/cmd/internal/domain/entity"
	"simplecms/cmd/internal/domain/policy"
)

const (
	UserList         = "User"
	PostList         = "Post"
	PostCategoryList = "PostCategory"
	NoteList         = "Note"
)

// NewDefault registers the four content lists.
func NewDefault() (*Registry, error) {
	r := NewRegistry()
	if err := r.Register(UserSchema(), PostSchema(), PostCategorySchema(), NoteSchema()); err != nil {
		return nil, err
	}
	return r, nil
}

func UserSchema() *List {
	selfOnly := &policy.Access{Update: policy.Self{ListKey: UserList}}
	return &List{
		Key:        UserList,
		Path:       "users",
		LabelField: "name",
		Fields: []*Field{
			{Name: "name", Kind: KindText, Required: true},
			{Name: "email", Kind: KindText, Unique: true, Access: selfOnly},
			{Name: "password", Kind: KindPassword, Access: selfOnly},
			{Name: "twitterId", Kind: KindText},
			{Name: "twitterUsername", Kind: KindText},
			{
				Name: "affiliation",
				Kind: KindSelect,
				Options: []string{
					string(entity.AffiliationIndependent),
					string(entity.AffiliationCompany),
					string(entity.AffiliationUniversity),
				},
			},
			{Name: "notes", Kind: KindRelationship, Ref: NoteList, Many: true},
			{Name: "attachment", Kind: KindFile},
			{Name: "avatar", Kind: KindImage},
		},
	}
}

// PostSchema binds ownership to the author relationship. A rule naming any
// other field fails registration, see ErrUnknownOwnerField.
func PostSchema() *List {
	owner := policy.Owner{ListKey: UserList, Field: "author"}
	return &List{
		Key:        PostList,
		Path:       "posts",
		LabelField: "name",
		Fields: []*Field{
			{Name: "name", Kind: KindText, Required: true},
			{Name: "slug", Kind: KindText, Required: true, Unique: true},
			{
				Name:     "status",
				Kind:     KindSelect,
				Required: true,
				Options:  []string{string(entity.PostStatusDraft), string(entity.PostStatusPublished)},
				Default:  string(entity.PostStatusDraft),
			},
			{Name: "author", Kind: KindRelationship, Ref: UserList},
			{Name: "categories", Kind: KindRelationship, Ref: PostCategoryList, Many: true},
		},
		Access: &policy.Access{
			Create: owner,
			Read:   policy.Allow,
			Update: owner,
			Delete: owner,
		},
	}
}

// PostCategorySchema is an append-only taxonomy.
func PostCategorySchema() *List {
	return &List{
		Key:        PostCategoryList,
		Path:       "post-categories",
		LabelField: "name",
		Fields: []*Field{
			{Name: "name", Kind: KindText, Required: true},
			{Name: "slug", Kind: KindText, Required: true, Unique: true},
		},
		Access: &policy.Access{
			Create: policy.Allow,
			Read:   policy.Allow,
			Update: policy.Deny,
			Delete: policy.Deny,
		},
	}
}

func NoteSchema() *List {
	return &List{
		Key:        NoteList,
		Path:       "notes",
		LabelField: "note",
		Fields: []*Field{
			{Name: "note", Kind: KindText},
			{Name: "user", Kind: KindRelationship, Ref: UserList},
		},
		Access: policy.Uniform(policy.Owner{ListKey: UserList, Field: "user"}),
	}
}
