package repository

import (
	"context"
	"errors"

	"simplecms/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultCategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *DefaultCategoryRepository {
	return &DefaultCategoryRepository{db: db}
}

func (c *DefaultCategoryRepository) FindAll(ctx context.Context) ([]*entity.PostCategory, error) {
	var categories []*entity.PostCategory
	err := c.db.WithContext(ctx).Order("created_at, id").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *DefaultCategoryRepository) FindByID(ctx context.Context, id string) (*entity.PostCategory, error) {
	var category entity.PostCategory
	err := c.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &category, nil
}

// FindAllInIDs returns the categories found among ids, in no particular order.
func (c *DefaultCategoryRepository) FindAllInIDs(ctx context.Context, ids []string) ([]*entity.PostCategory, error) {
	if len(ids) == 0 {
		return []*entity.PostCategory{}, nil
	}

	var categories []*entity.PostCategory
	err := c.db.WithContext(ctx).Where("id IN ?", ids).Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *DefaultCategoryRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&entity.PostCategory{}).
		Where("slug = ?", slug).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (c *DefaultCategoryRepository) Save(ctx context.Context, category *entity.PostCategory) error {
	return c.db.WithContext(ctx).Save(category).Error
}

func (c *DefaultCategoryRepository) Delete(ctx context.Context, category *entity.PostCategory) error {
	return c.db.WithContext(ctx).Delete(category).Error
}
