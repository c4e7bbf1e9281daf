package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"simplecms/cmd/internal/domain/entity"
	"simplecms/cmd/internal/utils"
	"simplecms/cmd/internal/utils/uid"

	"github.com/labstack/gommon/log"
)

const twitterProvider = "Twitter"

// ErrTokenRejected is returned by a UserInfoProvider when the identity
// provider refuses the token. It fails the sign-in without being a fault.
var ErrTokenRejected = errors.New("token rejected by identity provider")

type TokenVerifier interface {
	Verify(token string) (*FederatedClaims, error)
}

type UserInfoProvider interface {
	GetUserAttributes(ctx context.Context, accessToken string) (map[string]string, error)
}

type FederatedStore interface {
	FindByTwitterID(ctx context.Context, twitterID string) (*entity.User, error)
	Save(ctx context.Context, user *entity.User) error
}

// FederatedStrategy signs people in with a social identity brokered by Cognito.
// Users are matched by their Twitter id and created on first sign-in.
type FederatedStrategy struct {
	verifier TokenVerifier
	info     UserInfoProvider
	store    FederatedStore
}

func NewFederatedStrategy(verifier TokenVerifier, info UserInfoProvider, store FederatedStore) *FederatedStrategy {
	return &FederatedStrategy{verifier: verifier, info: info, store: store}
}

func (f *FederatedStrategy) Validate(ctx context.Context, accessToken string) (*Result, error) {
	claims, err := f.verifier.Verify(accessToken)
	if err != nil {
		log.Debugf("federated token refused: %v", err)
		return &Result{Success: false}, nil
	}

	attrs, err := f.info.GetUserAttributes(ctx, sanitizeToken(accessToken))
	if errors.Is(err, ErrTokenRejected) {
		return &Result{Success: false}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to fetch attributes of %s: %w", claims.Sub, err)
	}

	twitterID := twitterIdentity(attrs["identities"])
	if twitterID == "" {
		return &Result{Success: false}, nil
	}

	user, err := f.store.FindByTwitterID(ctx, twitterID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up twitter identity: %w", err)
	}

	handle := attrs["preferred_username"]
	if user == nil {
		user, err = f.createUser(ctx, twitterID, handle, attrs["name"], claims.Username)
		if err != nil {
			return nil, err
		}
		return &Result{Success: true, Item: user}, nil
	}

	if handle != "" && handle != user.TwitterUsername {
		user.TwitterUsername = handle
		user.UpdatedAt = utils.NowUTC()
		if err = f.store.Save(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to refresh twitter username of %s: %w", user.ID, err)
		}
	}
	return &Result{Success: true, Item: user}, nil
}

func (f *FederatedStrategy) createUser(ctx context.Context, twitterID, handle, name, fallback string) (*entity.User, error) {
	if name == "" {
		name = handle
	}
	if name == "" {
		name = fallback
	}

	now := utils.NowUTC()
	user := &entity.User{
		ID:              uid.Generate(),
		Name:            name,
		TwitterID:       twitterID,
		TwitterUsername: handle,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := f.store.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create federated user: %w", err)
	}

	log.Infof("created user %s for twitter identity %s", user.ID, twitterID)
	return user, nil
}

type linkedIdentity struct {
	UserID       string `json:"userId"`
	ProviderName string `json:"providerName"`
}

// twitterIdentity extracts the Twitter user id from Cognito's "identities" attribute.
func twitterIdentity(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	var identities []linkedIdentity
	if err := json.Unmarshal([]byte(raw), &identities); err != nil {
		log.Warnf("malformed identities attribute: %v", err)
		return ""
	}

	for _, id := range identities {
		if id.ProviderName == twitterProvider {
			return id.UserID
		}
	}
	return ""
}
