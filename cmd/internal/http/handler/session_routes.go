package handler

import (
	"context"
	"errors"
	"net/http"

	"simplecms/cmd/internal/contract"
	"simplecms/cmd/internal/domain/policy"
	"simplecms/cmd/internal/seed"
	"simplecms/cmd/internal/service"
	"simplecms/cmd/internal/utils"
	"simplecms/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type SessionService interface {
	GetSession(ctx context.Context, actor *policy.Authentication) *contract.SessionResponse
	SignIn(ctx context.Context, req *contract.SignInRequest) (*contract.SignInResponse, *service.IssuedSession, apierror.ErrorResponse)
	SignInFederated(ctx context.Context, req *contract.FederatedSignInRequest) (*contract.SignInResponse, *service.IssuedSession, apierror.ErrorResponse)
	SignOut(ctx context.Context, sessionID string) (*contract.SignOutResponse, apierror.ErrorResponse)
}

type Resetter interface {
	Reset(ctx context.Context) (*seed.Summary, error)
}

type DefaultSessionRoute struct {
	SessionService SessionService
	Resetter       Resetter
	CookieSecure   bool
	AdminPath      string
}

func NewSessionDefault(sessionService SessionService, resetter Resetter, cookieSecure bool, adminPath string) *DefaultSessionRoute {
	return &DefaultSessionRoute{
		SessionService: sessionService,
		Resetter:       resetter,
		CookieSecure:   cookieSecure,
		AdminPath:      adminPath,
	}
}

func (s *DefaultSessionRoute) GetSession(c echo.Context) error {
	resp := s.SessionService.GetSession(c.Request().Context(), utils.GetAuthFromContext(c))
	return c.JSON(http.StatusOK, resp)
}

func (s *DefaultSessionRoute) SignIn(c echo.Context) error {
	req := contract.SignInRequest{
		Username: c.QueryParam("username"),
		Password: c.QueryParam("password"),
	}

	resp, issued, apierr := s.SessionService.SignIn(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return s.completeSignIn(c, resp, issued)
}

func (s *DefaultSessionRoute) SignInFederated(c echo.Context) error {
	var req contract.FederatedSignInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, issued, apierr := s.SessionService.SignInFederated(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return s.completeSignIn(c, resp, issued)
}

func (s *DefaultSessionRoute) completeSignIn(c echo.Context, resp *contract.SignInResponse, issued *service.IssuedSession) error {
	if issued != nil {
		c.SetCookie(utils.NewSessionCookie(issued.Token, issued.ExpiresAt, s.CookieSecure))
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *DefaultSessionRoute) SignOut(c echo.Context) error {
	resp, apierr := s.SessionService.SignOut(c.Request().Context(), utils.GetSessionIDFromContext(c))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	c.SetCookie(utils.ClearedSessionCookie(s.CookieSecure))
	return c.JSON(http.StatusOK, resp)
}

// ResetDB drops every table and reseeds. Only mounted when resets are enabled.
func (s *DefaultSessionRoute) ResetDB(c echo.Context) error {
	summary, err := s.Resetter.Reset(c.Request().Context())
	if errors.Is(err, seed.ErrResetInProgress) {
		return c.JSON(apierror.ResetInProgressError.Code(), apierror.ResetInProgressError)
	}

	if err != nil {
		log.Errorf("failed to reset database: %v", err)
		return c.NoContent(http.StatusInternalServerError)
	}

	log.Infof("database reset, inserted %v", summary.Inserted)
	return c.Redirect(http.StatusFound, s.AdminPath)
}
