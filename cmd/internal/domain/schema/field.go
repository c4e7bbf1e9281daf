package schema

import "simplecms/cmd/internal/domain/policy"

// FieldKind is the closed set of field types a list can declare.
type FieldKind int

const (
	KindText FieldKind = iota
	KindPassword
	KindSelect
	KindRelationship
	KindFile
	KindImage
)

// Capabilities says what a field kind can do at all, before any access rule runs.
type Capabilities struct {
	Readable  bool `json:"readable"`
	Writable  bool `json:"writable"`
	Queryable bool `json:"queryable"`
}

var kindNames = [...]string{
	KindText:         "text",
	KindPassword:     "password",
	KindSelect:       "select",
	KindRelationship: "relationship",
	KindFile:         "file",
	KindImage:        "image",
}

var capabilityTable = [...]Capabilities{
	KindText:         {Readable: true, Writable: true, Queryable: true},
	KindPassword:     {Readable: false, Writable: true, Queryable: false},
	KindSelect:       {Readable: true, Writable: true, Queryable: true},
	KindRelationship: {Readable: true, Writable: true, Queryable: true},
	KindFile:         {Readable: true, Writable: true, Queryable: false},
	KindImage:        {Readable: true, Writable: true, Queryable: false},
}

func (k FieldKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Capabilities returns the capability row for k. Unknown kinds can do nothing.
func (k FieldKind) Capabilities() Capabilities {
	if k < 0 || int(k) >= len(capabilityTable) {
		return Capabilities{}
	}
	return capabilityTable[k]
}

// Field is a typed, named attribute of a list.
type Field struct {
	Name     string
	Kind     FieldKind
	Required bool
	Unique   bool

	// Options and Default apply to select fields.
	Options []string
	Default string

	// Ref is the target list key of a relationship field.
	// Many marks a to-many relationship.
	Ref  string
	Many bool

	// Access is optional. When set, operations it leaves out are denied.
	Access *policy.Access
}

// Permits reports whether the field kind supports op at all.
// Reads need a readable kind, creates and updates need a writable one.
func (f *Field) Permits(op policy.Operation) bool {
	caps := f.Kind.Capabilities()
	switch op {
	case policy.OpRead:
		return caps.Readable
	case policy.OpCreate, policy.OpUpdate:
		return caps.Writable
	}
	return true
}

// HasOption reports whether v is one of the select options. The empty value
// is accepted for optional selects.
func (f *Field) HasOption(v string) bool {
	if v == "" {
		return !f.Required
	}

	for _, opt := range f.Options {
		if opt == v {
			return true
		}
	}
	return false
}
