package schema

import (
	"unicode/utf8"

	"simplecms/cmd/internal/domain/policy"
)

const maxLabelLength = 60

// Texter exposes plain field values for label resolution.
type Texter interface {
	TextValue(field string) (string, bool)
}

// List is a named collection of fields plus a label rule and an access policy.
type List struct {
	Key        string
	Path       string
	LabelField string
	Fields     []*Field

	// Access is optional. A list without it is public.
	Access *policy.Access
}

func (l *List) Field(name string) (*Field, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Can evaluates the list-level rule for op.
func (l *List) Can(op policy.Operation, auth *policy.Authentication, item policy.Item) bool {
	return policy.Decide(l.Access, op, auth, item)
}

// CanField evaluates op on a single field. Unknown fields are always denied.
func (l *List) CanField(name string, op policy.Operation, auth *policy.Authentication, item policy.Item) bool {
	f, ok := l.Field(name)
	if !ok || !f.Permits(op) {
		return false
	}
	return policy.DecideField(f.Access, l.Can(op, auth, item), op, auth, item)
}

// ReadableFields lists the field names the caller may read on item.
func (l *List) ReadableFields(auth *policy.Authentication, item policy.Item) map[string]bool {
	readable := make(map[string]bool, len(l.Fields))
	listAllowed := l.Can(policy.OpRead, auth, item)
	for _, f := range l.Fields {
		if !f.Permits(policy.OpRead) {
			continue
		}
		if policy.DecideField(f.Access, listAllowed, policy.OpRead, auth, item) {
			readable[f.Name] = true
		}
	}
	return readable
}

// Label resolves the display label of item from the list's label field,
// falling back to the item id.
func (l *List) Label(item policy.Item) string {
	if t, ok := item.(Texter); ok && l.LabelField != "" {
		if v, ok := t.TextValue(l.LabelField); ok && v != "" {
			return truncate(v, maxLabelLength)
		}
	}
	return item.ItemID()
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}

	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
