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

type PostRepository interface {
	FindAll(ctx context.Context) ([]*entity.Post, error)
	FindByID(ctx context.Context, id string) (*entity.Post, error)
	ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error)
	Save(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, post *entity.Post) error
}

type DefaultPostService struct {
	PostRepo     PostRepository
	CategoryRepo CategoryRepository
	UserRepo     UserRepository
	Notifier     ChangeNotifier
	Validate     *validator.Validate

	posts accessGuard
}

func NewPostService(
	registry *schema.Registry,
	postRepo PostRepository,
	categoryRepo CategoryRepository,
	userRepo UserRepository,
	notifier ChangeNotifier,
	validate *validator.Validate,
) *DefaultPostService {
	return &DefaultPostService{
		PostRepo:     postRepo,
		CategoryRepo: categoryRepo,
		UserRepo:     userRepo,
		Notifier:     notifier,
		Validate:     validate,
		posts:        newAccessGuard(registry, schema.PostList),
	}
}

func (p *DefaultPostService) GetPosts(ctx context.Context, actor *policy.Authentication) ([]*contract.PostResponse, apierror.ErrorResponse) {
	posts, err := p.PostRepo.FindAll(ctx)
	if err != nil {
		log.Errorf("failed to fetch posts: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.PostResponse, 0, len(posts))
	for _, post := range posts {
		if p.posts.canRead(actor, post) {
			resp = append(resp, p.toPostResponse(post))
		}
	}
	return resp, nil
}

func (p *DefaultPostService) GetPost(ctx context.Context, actor *policy.Authentication, id string) (*contract.PostResponse, apierror.ErrorResponse) {
	post, apierr := p.fetchPost(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = p.posts.check(policy.OpRead, actor, post); apierr != nil {
		return nil, apierr
	}
	return p.toPostResponse(post), nil
}

func (p *DefaultPostService) CreatePost(ctx context.Context, actor *policy.Authentication, req *contract.CreatePostRequest) (*contract.PostResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := p.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	post := &entity.Post{
		Name:     req.Name,
		Slug:     req.Slug,
		Status:   entity.PostStatusDraft,
		AuthorID: defaultOwner(req.Author, actor),
	}
	if req.Status != nil {
		post.Status = entity.PostStatus(*req.Status)
	}

	if apierr := p.posts.checkFields(policy.OpCreate, actor, post, req.Fields()); apierr != nil {
		return nil, apierr
	}

	if apierr := p.checkSlugAvailable(ctx, post.Slug, ""); apierr != nil {
		return nil, apierr
	}

	if apierr := checkUserExists(ctx, p.UserRepo, post.AuthorID); apierr != nil {
		return nil, apierr
	}

	categories, apierr := resolveCategories(ctx, p.CategoryRepo, req.Categories)
	if apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	post.ID = uid.Generate()
	post.Categories = categories
	post.CreatedAt = now
	post.UpdatedAt = now

	if err := p.PostRepo.Save(ctx, post); err != nil {
		log.Errorf("failed to save post: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := p.toPostResponse(post)
	go p.Notifier.Broadcast(context.Background(), &events.PostCreated{PostResponse: resp})
	return resp, nil
}

func (p *DefaultPostService) UpdatePost(ctx context.Context, actor *policy.Authentication, id string, req *contract.UpdatePostRequest) (*contract.PostResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := p.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	post, apierr := p.fetchPost(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	// Update is decided on the stored item, before any change is applied.
	if apierr = p.posts.checkFields(policy.OpUpdate, actor, post, req.Fields()); apierr != nil {
		return nil, apierr
	}

	if req.Slug != nil && *req.Slug != post.Slug {
		if apierr = p.checkSlugAvailable(ctx, *req.Slug, post.ID); apierr != nil {
			return nil, apierr
		}
		post.Slug = *req.Slug
	}

	if req.Author != nil {
		author := req.Author
		if *author == "" {
			author = nil
		}
		if apierr = checkUserExists(ctx, p.UserRepo, author); apierr != nil {
			return nil, apierr
		}
		post.AuthorID = author
	}

	if req.Categories != nil {
		categories, apierr := resolveCategories(ctx, p.CategoryRepo, req.Categories)
		if apierr != nil {
			return nil, apierr
		}
		post.Categories = categories
	}

	if req.Name != nil {
		post.Name = *req.Name
	}
	if req.Status != nil {
		post.Status = entity.PostStatus(*req.Status)
	}

	post.UpdatedAt = utils.NowUTC()
	if err := p.PostRepo.Save(ctx, post); err != nil {
		log.Errorf("failed to update post %s: %v", post.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := p.toPostResponse(post)
	go p.Notifier.Broadcast(context.Background(), &events.PostUpdated{PostResponse: resp})
	return resp, nil
}

func (p *DefaultPostService) DeletePost(ctx context.Context, actor *policy.Authentication, id string) apierror.ErrorResponse {
	post, apierr := p.fetchPost(ctx, id)
	if apierr != nil {
		return apierr
	}

	if apierr = p.posts.check(policy.OpDelete, actor, post); apierr != nil {
		return apierr
	}

	if err := p.PostRepo.Delete(ctx, post); err != nil {
		log.Errorf("failed to delete post %s: %v", post.ID, err)
		return apierror.InternalServerError
	}

	go p.Notifier.Broadcast(context.Background(), &events.PostDeleted{PostID: post.ID})
	return nil
}

func (p *DefaultPostService) fetchPost(ctx context.Context, id string) (*entity.Post, apierror.ErrorResponse) {
	post, err := p.PostRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch post %s: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if post == nil {
		return nil, apierror.NotFoundError
	}
	return post, nil
}

func (p *DefaultPostService) checkSlugAvailable(ctx context.Context, slug, excludeID string) apierror.ErrorResponse {
	taken, err := p.PostRepo.ExistsBySlug(ctx, slug, excludeID)
	if err != nil {
		log.Errorf("failed to check post slug: %v", err)
		return apierror.InternalServerError
	}

	if taken {
		return apierror.SlugTakenError
	}
	return nil
}

func (p *DefaultPostService) toPostResponse(post *entity.Post) *contract.PostResponse {
	return &contract.PostResponse{
		ID:         post.ID,
		Label:      p.posts.label(post),
		Name:       post.Name,
		Slug:       post.Slug,
		Status:     string(post.Status),
		Author:     post.AuthorID,
		Categories: post.CategoryIDs(),
		CreatedAt:  utils.FormatEpoch(post.CreatedAt),
		UpdatedAt:  utils.FormatEpoch(post.UpdatedAt),
	}
}

// defaultOwner returns the requested owner id, or the caller's id when none was given.
func defaultOwner(requested *string, actor *policy.Authentication) *string {
	if requested != nil && *requested != "" {
		return requested
	}

	if actor == nil || actor.ItemID == "" {
		return nil
	}

	id := actor.ItemID
	return &id
}

func checkUserExists(ctx context.Context, users UserRepository, id *string) apierror.ErrorResponse {
	if id == nil {
		return nil
	}

	user, err := users.FindByID(ctx, *id)
	if err != nil {
		log.Errorf("failed to look up user %s: %v", *id, err)
		return apierror.InternalServerError
	}

	if user == nil {
		return apierror.UnknownUserError
	}
	return nil
}

func resolveCategories(ctx context.Context, repo CategoryRepository, ids []string) ([]*entity.PostCategory, apierror.ErrorResponse) {
	categories, err := repo.FindAllInIDs(ctx, ids)
	if err != nil {
		log.Errorf("failed to resolve categories: %v", err)
		return nil, apierror.InternalServerError
	}

	if len(categories) != len(ids) {
		return nil, apierror.UnknownCategoryError
	}
	return categories, nil
}
