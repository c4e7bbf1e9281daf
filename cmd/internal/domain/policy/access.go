// Package policy evaluates list and field access rules.
//
// A decision is always a plain boolean. Turning a denial into an API
// response is the caller's job, see service.accessGuard.
package policy

// Operation is one of the four item operations a rule can be attached to.
type Operation string

const (
	OpCreate Operation = "create"
	OpRead   Operation = "read"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Operations lists every operation in a stable order.
var Operations = []Operation{OpCreate, OpRead, OpUpdate, OpDelete}

// Authentication identifies the signed-in caller: the list the identity
// belongs to and the item id inside that list.
//
// A nil *Authentication is an anonymous caller.
type Authentication struct {
	ListKey string
	ItemID  string
}

// Item is anything a rule can be evaluated against.
type Item interface {
	// ItemID is the item's own id. Empty for items not stored yet.
	ItemID() string

	// Ref resolves a single relationship field to the referenced item id.
	// It reports false when the field does not exist on the item or is unset.
	Ref(field string) (string, bool)
}

// Access maps each operation to a rule. A nil rule means "not specified",
// and what that means depends on where the Access is attached:
// unspecified list operations are permitted, unspecified field operations are denied.
type Access struct {
	Create Rule
	Read   Rule
	Update Rule
	Delete Rule
}

// Uniform applies the same rule to every operation.
func Uniform(rule Rule) *Access {
	return &Access{Create: rule, Read: rule, Update: rule, Delete: rule}
}

// Rule returns the rule attached to op, or nil.
func (a *Access) Rule(op Operation) Rule {
	if a == nil {
		return nil
	}

	switch op {
	case OpCreate:
		return a.Create
	case OpRead:
		return a.Read
	case OpUpdate:
		return a.Update
	case OpDelete:
		return a.Delete
	}
	return nil
}

// Decide evaluates list-level access. A list without access configuration is public,
// and so is any operation the configuration leaves out.
func Decide(access *Access, op Operation, auth *Authentication, item Item) bool {
	rule := access.Rule(op)
	if rule == nil {
		return true
	}
	return rule.Allows(auth, item)
}

// DecideField evaluates field-level access on top of the list decision.
// Fields without configuration inherit listAllowed; configured fields deny
// every operation they do not name.
func DecideField(access *Access, listAllowed bool, op Operation, auth *Authentication, item Item) bool {
	if !listAllowed {
		return false
	}

	if access == nil {
		return true
	}

	rule := access.Rule(op)
	if rule == nil {
		return false
	}
	return rule.Allows(auth, item)
}
