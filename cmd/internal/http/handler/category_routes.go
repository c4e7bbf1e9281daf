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

type CategoryService interface {
	GetCategories(ctx context.Context, actor *policy.Authentication) ([]*contract.CategoryResponse, apierror.ErrorResponse)
	GetCategory(ctx context.Context, actor *policy.Authentication, id string) (*contract.CategoryResponse, apierror.ErrorResponse)
	CreateCategory(ctx context.Context, actor *policy.Authentication, req *contract.CreateCategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse)
	UpdateCategory(ctx context.Context, actor *policy.Authentication, id string, req *contract.UpdateCategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse)
	DeleteCategory(ctx context.Context, actor *policy.Authentication, id string) apierror.ErrorResponse
}

type DefaultCategoryRoute struct {
	CategoryService CategoryService
}

func NewCategoryDefault(categoryService CategoryService) *DefaultCategoryRoute {
	return &DefaultCategoryRoute{CategoryService: categoryService}
}

func (r *DefaultCategoryRoute) GetCategories(c echo.Context) error {
	categories, err := r.CategoryService.GetCategories(c.Request().Context(), utils.GetAuthFromContext(c))
	if err != nil {
		return c.JSON(err.Code(), err)
	}

	resp := echo.Map{"categories": categories}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultCategoryRoute) GetCategory(c echo.Context) error {
	id, perr := pathID(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	category, apierr := r.CategoryService.GetCategory(c.Request().Context(), utils.GetAuthFromContext(c), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, category)
}

func (r *DefaultCategoryRoute) CreateCategory(c echo.Context) error {
	var req contract.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	category, apierr := r.CategoryService.CreateCategory(c.Request().Context(), utils.GetAuthFromContext(c), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, category)
}

func (r *DefaultCategoryRoute) UpdateCategory(c echo.Context) error {
	id, perr := pathID(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	var req contract.UpdateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	category, apierr := r.CategoryService.UpdateCategory(c.Request().Context(), utils.GetAuthFromContext(c), id, &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, category)
}

func (r *DefaultCategoryRoute) DeleteCategory(c echo.Context) error {
	id, perr := pathID(c)
	if perr != nil {
		return c.JSON(perr.Code(), perr)
	}

	if apierr := r.CategoryService.DeleteCategory(c.Request().Context(), utils.GetAuthFromContext(c), id); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}
