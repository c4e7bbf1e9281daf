package service

import (
	"simplecms/cmd/internal/domain/policy"
	"simplecms/cmd/internal/domain/schema"
	"simplecms/cmd/internal/utils/apierror"
)

// accessGuard turns list and field decisions into API errors.
//
// Every denial is reported as apierror.NotFoundError, the same response a
// missing item gets, so callers cannot probe for items they are not allowed to see.
type accessGuard struct {
	list *schema.List
}

func newAccessGuard(registry *schema.Registry, listKey string) accessGuard {
	return accessGuard{list: registry.MustList(listKey)}
}

func (g accessGuard) check(op policy.Operation, auth *policy.Authentication, item policy.Item) apierror.ErrorResponse {
	if !g.list.Can(op, auth, item) {
		return apierror.NotFoundError
	}
	return nil
}

// checkFields requires op on the list and on every field in fields.
func (g accessGuard) checkFields(op policy.Operation, auth *policy.Authentication, item policy.Item, fields []string) apierror.ErrorResponse {
	if apierr := g.check(op, auth, item); apierr != nil {
		return apierr
	}

	for _, f := range fields {
		if !g.list.CanField(f, op, auth, item) {
			return apierror.NotFoundError
		}
	}
	return nil
}

func (g accessGuard) canRead(auth *policy.Authentication, item policy.Item) bool {
	return g.list.Can(policy.OpRead, auth, item)
}

func (g accessGuard) label(item policy.Item) string {
	return g.list.Label(item)
}
