package schema

import (
	"errors"
	"fmt"

	"simplecms/cmd/internal/domain/policy"
)

var (
	ErrDuplicateList     = errors.New("list already registered")
	ErrUnknownLabelField = errors.New("label field is not a readable field of the list")
	ErrUnknownRefList    = errors.New("relationship points at an unregistered list")
	ErrUnknownOwnerField = errors.New("owner rule names a field that is not a single relationship to the owner list")
	ErrSelfListMismatch  = errors.New("self rule names a different list")
)

// Registry holds every declared list and checks them against each other.
type Registry struct {
	lists  map[string]*List
	byPath map[string]*List
	order  []string
}

func NewRegistry() *Registry {
	return &Registry{
		lists:  make(map[string]*List),
		byPath: make(map[string]*List),
	}
}

// Register adds lists and validates the whole registry afterwards, so lists may
// reference each other regardless of registration order. On error nothing is added.
func (r *Registry) Register(lists ...*List) error {
	staged := NewRegistry()
	for _, key := range r.order {
		staged.add(r.lists[key])
	}

	for _, l := range lists {
		if _, exists := staged.lists[l.Key]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateList, l.Key)
		}
		if _, exists := staged.byPath[l.Path]; exists {
			return fmt.Errorf("%w: path %s", ErrDuplicateList, l.Path)
		}
		staged.add(l)
	}

	for _, key := range staged.order {
		if err := staged.validate(staged.lists[key]); err != nil {
			return err
		}
	}

	*r = *staged
	return nil
}

func (r *Registry) List(key string) (*List, bool) {
	l, ok := r.lists[key]
	return l, ok
}

func (r *Registry) ByPath(path string) (*List, bool) {
	l, ok := r.byPath[path]
	return l, ok
}

// Lists returns the registered lists in registration order.
func (r *Registry) Lists() []*List {
	out := make([]*List, len(r.order))
	for i, key := range r.order {
		out[i] = r.lists[key]
	}
	return out
}

// MustList is for lists declared in this package, whose presence is a programming invariant.
func (r *Registry) MustList(key string) *List {
	l, ok := r.lists[key]
	if !ok {
		panic("schema: list not registered: " + key)
	}
	return l
}

func (r *Registry) add(l *List) {
	r.lists[l.Key] = l
	r.byPath[l.Path] = l
	r.order = append(r.order, l.Key)
}

func (r *Registry) validate(l *List) error {
	if l.LabelField != "" {
		f, ok := l.Field(l.LabelField)
		if !ok || !f.Kind.Capabilities().Readable {
			return fmt.Errorf("%w: %s.%s", ErrUnknownLabelField, l.Key, l.LabelField)
		}
	}

	for _, f := range l.Fields {
		if f.Kind == KindRelationship {
			if _, ok := r.lists[f.Ref]; !ok {
				return fmt.Errorf("%w: %s.%s -> %s", ErrUnknownRefList, l.Key, f.Name, f.Ref)
			}
		}
		if err := r.validateAccess(l, f.Access); err != nil {
			return err
		}
	}
	return r.validateAccess(l, l.Access)
}

func (r *Registry) validateAccess(l *List, access *policy.Access) error {
	if access == nil {
		return nil
	}

	for _, op := range policy.Operations {
		switch rule := access.Rule(op).(type) {
		case policy.Owner:
			f, ok := l.Field(rule.Field)
			if !ok || f.Kind != KindRelationship || f.Many || f.Ref != rule.ListKey {
				return fmt.Errorf("%w: %s %s rule uses %q", ErrUnknownOwnerField, l.Key, op, rule.Field)
			}
		case policy.Self:
			if rule.ListKey != l.Key {
				return fmt.Errorf("%w: %s %s rule uses %q", ErrSelfListMismatch, l.Key, op, rule.ListKey)
			}
		}
	}
	return nil
}
