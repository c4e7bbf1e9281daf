package service

import (
	"strings"

	"simplecms/cmd/internal/auth"
	"simplecms/cmd/internal/domain/entity"
	"simplecms/cmd/internal/domain/policy"
	"simplecms/cmd/internal/utils/apierror"

	"github.com/labstack/gommon/log"
)

// userUpdater acts as a "change set" for a single user.
// Every setter checks field-level update access before touching the target,
// accumulates the first error and tracks whether a save is needed.
type userUpdater struct {
	actor  *policy.Authentication
	target *entity.User
	guard  accessGuard

	// State
	err          apierror.ErrorResponse
	dirty        bool
	emailChanged bool
}

func (u *userUpdater) allowed(field string) bool {
	if u.err != nil {
		return false
	}

	if !u.guard.list.CanField(field, policy.OpUpdate, u.actor, u.target) {
		u.err = apierror.NotFoundError
		return false
	}
	return true
}

func (u *userUpdater) setString(field string, newVal *string, targetField *string) {
	if newVal == nil || !u.allowed(field) {
		return
	}

	if *newVal == *targetField {
		return
	}

	*targetField = *newVal
	u.dirty = true
}

func (u *userUpdater) setAffiliation(newVal *string) {
	if newVal == nil || !u.allowed("affiliation") {
		return
	}

	affiliation := entity.Affiliation(*newVal)
	if affiliation == u.target.Affiliation {
		return
	}

	u.target.Affiliation = affiliation
	u.dirty = true
}

func (u *userUpdater) setEmail(newVal *string) {
	if newVal == nil || !u.allowed("email") {
		return
	}

	email := strings.ToLower(*newVal)
	if email == u.target.Email {
		return
	}

	u.target.Email = email
	u.dirty = true
	u.emailChanged = true
}

// setPassword always rehashes.
func (u *userUpdater) setPassword(newVal *string) {
	if newVal == nil || !u.allowed("password") {
		return
	}

	hash, err := auth.HashPassword(*newVal)
	if err != nil {
		log.Errorf("failed to hash password of user %s: %v", u.target.ID, err)
		u.err = apierror.InternalServerError
		return
	}

	u.target.PasswordHash = hash
	u.dirty = true
}
