// Package auth verifies credentials against the User list and signs session tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"simplecms/cmd/internal/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

// dummyPassword is hashed once per strategy and compared against whenever the
// identity is unknown, so both failure branches spend the same bcrypt work.
const dummyPassword = "simplecms-no-such-user"

// Credentials is what a caller presents to sign in. Username is matched against the User email.
type Credentials struct {
	Username string
	Password string
}

// Result is the outcome of a validation. Item is set only when Success is true.
type Result struct {
	Success bool
	Item    *entity.User
}

type IdentityStore interface {
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// PasswordStrategy validates email/password pairs against the User list.
type PasswordStrategy struct {
	store     IdentityStore
	dummyHash []byte
}

func NewPasswordStrategy(store IdentityStore) (*PasswordStrategy, error) {
	dummy, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash dummy password: %w", err)
	}
	return &PasswordStrategy{store: store, dummyHash: dummy}, nil
}

// Validate reports whether creds match a stored user.
//
// An unknown username and a wrong password produce the same failed Result.
// Only store faults come back as an error.
func (p *PasswordStrategy) Validate(ctx context.Context, creds Credentials) (*Result, error) {
	// Emails are stored lowercased.
	email := strings.ToLower(strings.TrimSpace(creds.Username))
	user, err := p.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up identity: %w", err)
	}

	if user == nil || user.PasswordHash == "" {
		_ = bcrypt.CompareHashAndPassword(p.dummyHash, []byte(creds.Password))
		return &Result{Success: false}, nil
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return &Result{Success: false}, nil
	}

	if err != nil {
		// Malformed stored hash, same answer for the caller.
		return &Result{Success: false}, nil
	}
	return &Result{Success: true, Item: user}, nil
}

// HashPassword returns the bcrypt hash stored in User.PasswordHash.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
