package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"strings"

	"simplecms/cmd/internal/contract"
	"simplecms/cmd/internal/domain/policy"
	"simplecms/cmd/internal/utils"
	"simplecms/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type UserService interface {
	GetUsers(ctx context.Context, actor *policy.Authentication) ([]*contract.UserResponse, apierror.ErrorResponse)
	GetUser(ctx context.Context, actor *policy.Authentication, id string) (*contract.UserResponse, apierror.ErrorResponse)
	CreateUser(ctx context.Context, actor *policy.Authentication, req *contract.CreateUserRequest) (*contract.UserResponse, apierror.ErrorResponse)
	UpdateUser(ctx context.Context, actor *policy.Authentication, id string, req *contract.UpdateUserRequest) (*contract.UserResponse, apierror.ErrorResponse)
	DeleteUser(ctx context.Context, actor *policy.Authentication, id string) apierror.ErrorResponse
	UploadAttachment(ctx context.Context, actor *policy.Authentication, id string, fh *multipart.FileHeader) (*contract.UserResponse, apierror.ErrorResponse)
	UploadAvatar(ctx context.Context, actor *policy.Authentication, id string, fh *multipart.FileHeader) (*contract.UserResponse, apierror.ErrorResponse)
}

type DefaultUserRoute struct {
	UserService UserService
}

func NewUserDefault(userService UserService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService}
}

func (u *DefaultUserRoute) GetUsers(c echo.Context) error {
	users, apierr := u.UserService.GetUsers(c.Request().Context(), utils.GetAuthFromContext(c))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"users": users}
	return c.JSON(http.StatusOK, &resp)
}

func (u *DefaultUserRoute) GetUser(c echo.Context) error {
	id, perr := pathID(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	resp, apierr := u.UserService.GetUser(c.Request().Context(), utils.GetAuthFromContext(c), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (u *DefaultUserRoute) CreateUser(c echo.Context) error {
	var req contract.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	user, apierr := u.UserService.CreateUser(c.Request().Context(), utils.GetAuthFromContext(c), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, user)
}

func (u *DefaultUserRoute) UpdateUser(c echo.Context) error {
	id, perr := pathID(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	var req contract.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	user, apierr := u.UserService.UpdateUser(c.Request().Context(), utils.GetAuthFromContext(c), id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, user)
}

func (u *DefaultUserRoute) DeleteUser(c echo.Context) error {
	id, perr := pathID(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	if apierr := u.UserService.DeleteUser(c.Request().Context(), utils.GetAuthFromContext(c), id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (u *DefaultUserRoute) UploadAttachment(c echo.Context) error {
	return u.upload(c, u.UserService.UploadAttachment)
}

func (u *DefaultUserRoute) UploadAvatar(c echo.Context) error {
	return u.upload(c, u.UserService.UploadAvatar)
}

type uploadFunc func(ctx context.Context, actor *policy.Authentication, id string, fh *multipart.FileHeader) (*contract.UserResponse, apierror.ErrorResponse)

func (u *DefaultUserRoute) upload(c echo.Context, fn uploadFunc) error {
	id, perr := pathID(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(apierror.MissingUploadError.Code(), apierror.MissingUploadError)
	}

	user, apierr := fn(c.Request().Context(), utils.GetAuthFromContext(c), id, fh)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, user)
}

func pathID(c echo.Context) (string, apierror.ErrorResponse) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return "", apierror.NewMissingParamError("id")
	}
	return id, nil
}
