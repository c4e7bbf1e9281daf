package repository

import (
	"context"
	"errors"

	"simplecms/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultPostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *DefaultPostRepository {
	return &DefaultPostRepository{db: db}
}

func (p *DefaultPostRepository) FindAll(ctx context.Context) ([]*entity.Post, error) {
	var posts []*entity.Post
	err := p.db.WithContext(ctx).
		Preload("Categories").
		Order("created_at, id").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (p *DefaultPostRepository) FindByID(ctx context.Context, id string) (*entity.Post, error) {
	var post entity.Post
	err := p.db.WithContext(ctx).
		Preload("Categories").
		Where("id = ?", id).
		First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (p *DefaultPostRepository) ExistsBySlug(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Model(&entity.Post{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save writes the post and replaces its category links with post.Categories.
func (p *DefaultPostRepository) Save(ctx context.Context, post *entity.Post) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Categories").Save(post).Error; err != nil {
			return err
		}
		return tx.Model(post).Association("Categories").Replace(post.Categories)
	})
}

func (p *DefaultPostRepository) Delete(ctx context.Context, post *entity.Post) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(post).Association("Categories").Clear(); err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
}
