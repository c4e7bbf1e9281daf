package policy

// Rule is a single access predicate.
//
// The set of rules is closed: Static, Owner and Self. Each is a value built
// at list registration time with everything it needs, so no rule depends on
// state captured from elsewhere.
type Rule interface {
	Allows(auth *Authentication, item Item) bool
}

// Static is a constant decision.
type Static bool

const (
	Allow Static = true
	Deny  Static = false
)

func (s Static) Allows(*Authentication, Item) bool {
	return bool(s)
}

// Owner permits the caller when it is signed in through ListKey and its id
// equals the id stored in the item's Field relationship.
type Owner struct {
	ListKey string
	Field   string
}

func (o Owner) Allows(auth *Authentication, item Item) bool {
	if auth == nil || item == nil {
		return false
	}

	if auth.ListKey != o.ListKey || auth.ItemID == "" {
		return false
	}

	ref, ok := item.Ref(o.Field)
	if !ok {
		return false
	}
	return auth.ItemID == ref
}

// Self permits the caller when it is the item itself, as in a user editing
// its own account.
type Self struct {
	ListKey string
}

func (s Self) Allows(auth *Authentication, item Item) bool {
	if auth == nil || item == nil {
		return false
	}

	if auth.ListKey != s.ListKey || auth.ItemID == "" {
		return false
	}
	return auth.ItemID == item.ItemID()
}
