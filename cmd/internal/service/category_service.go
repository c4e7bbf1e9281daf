package service

import (
	"context"

	"simplecms/cmd/internal/contract"
	"simplecms/cmd/internal/domain/entity"
	"simplecms/cmd/internal/domain/events"
	"simplecms/cmd/internal/domain/policy"
	"simplecms/cmd/internal/domain/schema"
	"simplecms/cmd/internal/utils"
	"simplecms/cmd/internal/utils/apierror"
	"simplecms/cmd/internal/utils/uid"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type CategoryRepository interface {
	FindAll(ctx context.Context) ([]*entity.PostCategory, error)
	FindByID(ctx context.Context, id string) (*entity.PostCategory, error)
	FindAllInIDs(ctx context.Context, ids []string) ([]*entity.PostCategory, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Save(ctx context.Context, category *entity.PostCategory) error
	Delete(ctx context.Context, category *entity.PostCategory) error
}

type DefaultCategoryService struct {
	CategoryRepo CategoryRepository
	Notifier     ChangeNotifier
	Validate     *validator.Validate

	categories accessGuard
}

func NewCategoryService(registry *schema.Registry, repo CategoryRepository, notifier ChangeNotifier, validate *validator.Validate) *DefaultCategoryService {
	return &DefaultCategoryService{
		CategoryRepo: repo,
		Notifier:     notifier,
		Validate:     validate,
		categories:   newAccessGuard(registry, schema.PostCategoryList),
	}
}

func (s *DefaultCategoryService) GetCategories(ctx context.Context, actor *policy.Authentication) ([]*contract.CategoryResponse, apierror.ErrorResponse) {
	categories, err := s.CategoryRepo.FindAll(ctx)
	if err != nil {
		log.Errorf("failed to fetch categories: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		if s.categories.canRead(actor, c) {
			resp = append(resp, s.toCategoryResponse(c))
		}
	}
	return resp, nil
}

func (s *DefaultCategoryService) GetCategory(ctx context.Context, actor *policy.Authentication, id string) (*contract.CategoryResponse, apierror.ErrorResponse) {
	category, apierr := s.fetchCategory(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = s.categories.check(policy.OpRead, actor, category); apierr != nil {
		return nil, apierr
	}
	return s.toCategoryResponse(category), nil
}

func (s *DefaultCategoryService) CreateCategory(ctx context.Context, actor *policy.Authentication, req *contract.CreateCategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	category := &entity.PostCategory{Name: req.Name, Slug: req.Slug}
	if apierr := s.categories.checkFields(policy.OpCreate, actor, category, []string{"name", "slug"}); apierr != nil {
		return nil, apierr
	}

	if apierr := s.checkSlugAvailable(ctx, category.Slug); apierr != nil {
		return nil, apierr
	}

	category.ID = uid.Generate()
	category.CreatedAt = utils.NowUTC()
	if err := s.CategoryRepo.Save(ctx, category); err != nil {
		log.Errorf("failed to save category: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := s.toCategoryResponse(category)
	go s.Notifier.Broadcast(context.Background(), &events.CategoryCreated{CategoryResponse: resp})
	return resp, nil
}

// UpdateCategory goes through the same guard as every other list, so an
// append-only policy answers not-found here.
func (s *DefaultCategoryService) UpdateCategory(ctx context.Context, actor *policy.Authentication, id string, req *contract.UpdateCategoryRequest) (*contract.CategoryResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	category, apierr := s.fetchCategory(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = s.categories.checkFields(policy.OpUpdate, actor, category, req.Fields()); apierr != nil {
		return nil, apierr
	}

	if req.Slug != nil && *req.Slug != category.Slug {
		if apierr = s.checkSlugAvailable(ctx, *req.Slug); apierr != nil {
			return nil, apierr
		}
		category.Slug = *req.Slug
	}
	if req.Name != nil {
		category.Name = *req.Name
	}

	if err := s.CategoryRepo.Save(ctx, category); err != nil {
		log.Errorf("failed to update category %s: %v", category.ID, err)
		return nil, apierror.InternalServerError
	}
	return s.toCategoryResponse(category), nil
}

func (s *DefaultCategoryService) DeleteCategory(ctx context.Context, actor *policy.Authentication, id string) apierror.ErrorResponse {
	category, apierr := s.fetchCategory(ctx, id)
	if apierr != nil {
		return apierr
	}

	if apierr = s.categories.check(policy.OpDelete, actor, category); apierr != nil {
		return apierr
	}

	if err := s.CategoryRepo.Delete(ctx, category); err != nil {
		log.Errorf("failed to delete category %s: %v", category.ID, err)
		return apierror.InternalServerError
	}
	return nil
}

func (s *DefaultCategoryService) fetchCategory(ctx context.Context, id string) (*entity.PostCategory, apierror.ErrorResponse) {
	category, err := s.CategoryRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch category %s: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if category == nil {
		return nil, apierror.NotFoundError
	}
	return category, nil
}

func (s *DefaultCategoryService) checkSlugAvailable(ctx context.Context, slug string) apierror.ErrorResponse {
	taken, err := s.CategoryRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		log.Errorf("failed to check category slug: %v", err)
		return apierror.InternalServerError
	}

	if taken {
		return apierror.SlugTakenError
	}
	return nil
}

func (s *DefaultCategoryService) toCategoryResponse(c *entity.PostCategory) *contract.CategoryResponse {
	return &contract.CategoryResponse{
		ID:        c.ID,
		Label:     s.categories.label(c),
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: utils.FormatEpoch(c.CreatedAt),
	}
}
