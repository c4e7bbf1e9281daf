package handler

import (
	"context"
	"net/http"

	"simplecms/cmd/internal/contract"
	"simplecms/cmd/internal/domain/policy"
	"simplecms/cmd/internal/utils"
	"simplecms/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type PostService interface {
	GetPosts(ctx context.Context, actor *policy.Authentication) ([]*contract.PostResponse, apierror.ErrorResponse)
	GetPost(ctx context.Context, actor *policy.Authentication, id string) (*contract.PostResponse, apierror.ErrorResponse)
	CreatePost(ctx context.Context, actor *policy.Authentication, req *contract.CreatePostRequest) (*contract.PostResponse, apierror.ErrorResponse)
	UpdatePost(ctx context.Context, actor *policy.Authentication, id string, req *contract.UpdatePostRequest) (*contract.PostResponse, apierror.ErrorResponse)
	DeletePost(ctx context.Context, actor *policy.Authentication, id string) apierror.ErrorResponse
}

type DefaultPostRoute struct {
	PostService PostService
}

func NewPostDefault(postService PostService) *DefaultPostRoute {
	return &DefaultPostRoute{PostService: postService}
}

func (p *DefaultPostRoute) GetPosts(c echo.Context) error {
	posts, err := p.PostService.GetPosts(c.Request().Context(), utils.GetAuthFromContext(c))
	if err != nil {
		return c.JSON(err.Code(), err)
	}

	resp := echo.Map{"posts": posts}
	return c.JSON(http.StatusOK, &resp)
}

func (p *DefaultPostRoute) GetPost(c echo.Context) error {
	id, perr := pathID(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	post, apierr := p.PostService.GetPost(c.Request().Context(), utils.GetAuthFromContext(c), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, post)
}

func (p *DefaultPostRoute) CreatePost(c echo.Context) error {
	var req contract.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	post, apierr := p.PostService.CreatePost(c.Request().Context(), utils.GetAuthFromContext(c), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, post)
}

func (p *DefaultPostRoute) UpdatePost(c echo.Context) error {
	id, perr := pathID(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	var req contract.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	post, apierr := p.PostService.UpdatePost(c.Request().Context(), utils.GetAuthFromContext(c), id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, post)
}

func (p *DefaultPostRoute) DeletePost(c echo.Context) error {
	id, perr := pathID(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	if apierr := p.PostService.DeletePost(c.Request().Context(), utils.GetAuthFromContext(c), id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
