package service

import (
	"simplecms/cmd/internal/contract"
	"simplecms/cmd/internal/domain/schema"
	"simplecms/cmd/internal/utils/apierror"
)

// SchemaService describes the registered lists for admin clients.
type SchemaService struct {
	Registry *schema.Registry
}

func NewSchemaService(registry *schema.Registry) *SchemaService {
	return &SchemaService{Registry: registry}
}

func (s *SchemaService) Describe() []*contract.ListSchemaResponse {
	lists := s.Registry.Lists()
	resp := make([]*contract.ListSchemaResponse, len(lists))
	for i, l := range lists {
		resp[i] = describeList(l)
	}
	return resp
}

// DescribeList resolves a list by its URL path, e.g. "post-categories".
func (s *SchemaService) DescribeList(path string) (*contract.ListSchemaResponse, apierror.ErrorResponse) {
	l, ok := s.Registry.ByPath(path)
	if !ok {
		return nil, apierror.UnknownListError
	}
	return describeList(l), nil
}

func describeList(l *schema.List) *contract.ListSchemaResponse {
	fields := make([]*contract.FieldSchemaResponse, len(l.Fields))
	for i, f := range l.Fields {
		fields[i] = &contract.FieldSchemaResponse{
			Name:         f.Name,
			Kind:         f.Kind.String(),
			Required:     f.Required,
			Unique:       f.Unique,
			Options:      f.Options,
			Default:      f.Default,
			Ref:          f.Ref,
			Many:         f.Many,
			Capabilities: f.Kind.Capabilities(),
		}
	}

	return &contract.ListSchemaResponse{
		Key:        l.Key,
		Path:       l.Path,
		LabelField: l.LabelField,
		Fields:     fields,
	}
}
