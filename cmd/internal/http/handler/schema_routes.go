package handler

import (
	"net/http"

	"simplecms/cmd/internal/contract"
	"simplecms/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type SchemaService interface {
	Describe() []*contract.ListSchemaResponse
	DescribeList(path string) (*contract.ListSchemaResponse, apierror.ErrorResponse)
}

type DefaultSchemaRoute struct {
	SchemaService SchemaService
}

func NewSchemaDefault(schemaService SchemaService) *DefaultSchemaRoute {
	return &DefaultSchemaRoute{SchemaService: schemaService}
}

func (s *DefaultSchemaRoute) GetSchema(c echo.Context) error {
	resp := echo.Map{"lists": s.SchemaService.Describe()}
	return c.JSON(http.StatusOK, &resp)
}

func (s *DefaultSchemaRoute) GetListSchema(c echo.Context) error {
	list, apierr := s.SchemaService.DescribeList(c.Param("path"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, list)
}
