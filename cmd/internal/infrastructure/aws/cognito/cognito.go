package cognitoclient

import (
	"context"
	"errors"
	"fmt"

	"simplecms/cmd/internal/auth"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

var (
	notAuthorized *types.NotAuthorizedException
	userNotFound  *types.UserNotFoundException
)

type Client struct {
	api *cognito.Client
}

func NewClient(ctx context.Context, region string) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &Client{api: cognito.NewFromConfig(cfg)}, nil
}

// GetUserAttributes returns the attributes of the user owning accessToken.
// A token Cognito refuses is reported as auth.ErrTokenRejected.
func (c *Client) GetUserAttributes(ctx context.Context, accessToken string) (map[string]string, error) {
	out, err := c.api.GetUser(ctx, &cognito.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return nil, mapCognitoError(err)
	}

	attrs := make(map[string]string, len(out.UserAttributes))
	for _, attr := range out.UserAttributes {
		attrs[aws.ToString(attr.Name)] = aws.ToString(attr.Value)
	}
	return attrs, nil
}

func mapCognitoError(err error) error {
	switch {
	case errors.As(err, &notAuthorized), errors.As(err, &userNotFound):
		return fmt.Errorf("%w: %v", auth.ErrTokenRejected, err)
	default:
		return fmt.Errorf("cognito GetUser failed: %w", err)
	}
}
