package auth

import (
	"context"
	"errors"
	"testing"

	"simplecms/cmd/internal/domain/entity"
)

type mockVerifier struct {
	verifyFn func(token string) (*FederatedClaims, error)
}

func (m *mockVerifier) Verify(token string) (*FederatedClaims, error) {
	return m.verifyFn(token)
}

type mockInfoProvider struct {
	attrsFn func(ctx context.Context, token string) (map[string]string, error)
}

func (m *mockInfoProvider) GetUserAttributes(ctx context.Context, token string) (map[string]string, error) {
	return m.attrsFn(ctx, token)
}

type memoryFederatedStore struct {
	users map[string]*entity.User
	saves int
}

func (m *memoryFederatedStore) FindByTwitterID(_ context.Context, twitterID string) (*entity.User, error) {
	for _, u := range m.users {
		if u.TwitterID == twitterID {
			return u, nil
		}
	}
	return nil, nil
}

func (m *memoryFederatedStore) Save(_ context.Context, user *entity.User) error {
	m.saves++
	m.users[user.ID] = user
	return nil
}

func validVerifier() *mockVerifier {
	return &mockVerifier{verifyFn: func(string) (*FederatedClaims, error) {
		return &FederatedClaims{Sub: "sub-1", Username: "Twitter_42"}, nil
	}}
}

func twitterAttrs(handle string) *mockInfoProvider {
	return &mockInfoProvider{attrsFn: func(context.Context, string) (map[string]string, error) {
		return map[string]string{
			"identities":         `[{"userId":"42","providerName":"Twitter"}]`,
			"preferred_username": handle,
			"name":               "Ada",
		}, nil
	}}
}

func TestFederatedStrategy_CreatesUserOnFirstSignIn(t *testing.T) {
	store := &memoryFederatedStore{users: map[string]*entity.User{}}
	strategy := NewFederatedStrategy(validVerifier(), twitterAttrs("ada"), store)

	res, err := strategy.Validate(context.Background(), "Bearer token")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !res.Success || res.Item == nil {
		t.Fatalf("Validate() = %+v, want success", res)
	}
	if res.Item.TwitterID != "42" || res.Item.TwitterUsername != "ada" || res.Item.Name != "Ada" {
		t.Errorf("created user = %+v", res.Item)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
}

func TestFederatedStrategy_ReusesAndRefreshesExistingUser(t *testing.T) {
	existing := &entity.User{ID: "7", Name: "Ada", TwitterID: "42", TwitterUsername: "old"}
	store := &memoryFederatedStore{users: map[string]*entity.User{"7": existing}}
	strategy := NewFederatedStrategy(validVerifier(), twitterAttrs("new"), store)

	res, err := strategy.Validate(context.Background(), "token")
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if res.Item.ID != "7" {
		t.Errorf("Item.ID = %q, want %q", res.Item.ID, "7")
	}
	if existing.TwitterUsername != "new" {
		t.Errorf("TwitterUsername = %q, want %q", existing.TwitterUsername, "new")
	}
}

func TestFederatedStrategy_RejectedTokensFailWithoutError(t *testing.T) {
	store := &memoryFederatedStore{users: map[string]*entity.User{}}

	badToken := &mockVerifier{verifyFn: func(string) (*FederatedClaims, error) {
		return nil, errors.New("bad signature")
	}}
	refused := &mockInfoProvider{attrsFn: func(context.Context, string) (map[string]string, error) {
		return nil, ErrTokenRejected
	}}
	noTwitter := &mockInfoProvider{attrsFn: func(context.Context, string) (map[string]string, error) {
		return map[string]string{"identities": `[{"userId":"9","providerName":"Google"}]`}, nil
	}}

	cases := map[string]*FederatedStrategy{
		"bad signature": NewFederatedStrategy(badToken, twitterAttrs("ada"), store),
		"refused":       NewFederatedStrategy(validVerifier(), refused, store),
		"no twitter":    NewFederatedStrategy(validVerifier(), noTwitter, store),
	}

	for name, strategy := range cases {
		res, err := strategy.Validate(context.Background(), "token")
		if err != nil {
			t.Errorf("%s: Validate() error = %v", name, err)
			continue
		}
		if res.Success {
			t.Errorf("%s: Validate() succeeded", name)
		}
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0", store.saves)
	}
}

func TestTwitterIdentity(t *testing.T) {
	tests := map[string]string{
		"":      "",
		"{oops": "",
		`[{"userId":"1","providerName":"Google"},{"userId":"2","providerName":"Twitter"}]`: "2",
	}
	for raw, want := range tests {
		if got := twitterIdentity(raw); got != want {
			t.Errorf("twitterIdentity(%q) = %q, want %q", raw, got, want)
		}
	}
}
