package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/gommon/log"
)

// FederatedClaims is the subset of a Cognito access token the federated strategy needs.
type FederatedClaims struct {
	Sub      string
	Username string
	Exp      int64
}

// CognitoVerifier validates Cognito access tokens locally against the pool's published keys.
type CognitoVerifier struct {
	jwks   keyfunc.Keyfunc
	issuer string
}

func NewCognitoVerifier(ctx context.Context, region, poolID string) (*CognitoVerifier, error) {
	issuer := fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", region, poolID)
	jwksURL := issuer + "/.well-known/jwks.json"

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS from resource at %s: %w", jwksURL, err)
	}

	log.Infof("JWKS initialized. Keys loaded from %s", jwksURL)
	return &CognitoVerifier{jwks: jwks, issuer: issuer}, nil
}

// Verify parses AND validates the signature locally.
// Only unexpired access tokens issued by the configured pool are accepted.
func (v *CognitoVerifier) Verify(tokenString string) (*FederatedClaims, error) {
	clean := sanitizeToken(tokenString)
	token, err := jwt.Parse(clean, v.jwks.Keyfunc,
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims format")
	}

	if getValue(claims, "token_use") != "access" {
		return nil, errors.New("not an access token")
	}

	return &FederatedClaims{
		Sub:      getValue(claims, "sub"),
		Username: getValue(claims, "username"),
		Exp:      getInt64(claims, "exp"),
	}, nil
}

func sanitizeToken(token string) string {
	return strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
}

func getValue(claims jwt.MapClaims, key string) string {
	if val, ok := claims[key].(string); ok {
		return val
	}
	return ""
}

func getInt64(claims jwt.MapClaims, key string) int64 {
	val, ok := claims[key]
	if !ok {
		return 0
	}
	if f, ok := val.(float64); ok {
		return int64(f)
	}
	if i, ok := val.(int64); ok {
		return i
	}
	return 0
}
