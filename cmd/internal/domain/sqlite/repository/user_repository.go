package repository

import (
	"context"
	"errors"

	"simplecms/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{db: db}
}

func (u *DefaultUserRepository) FindAll(ctx context.Context) ([]*entity.User, error) {
	var users []*entity.User
	err := u.db.WithContext(ctx).Order("created_at, id").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (u *DefaultUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return u.findOne(ctx, "id = ?", id)
}

func (u *DefaultUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if email == "" {
		return nil, nil
	}
	return u.findOne(ctx, "email = ?", email)
}

func (u *DefaultUserRepository) FindByTwitterID(ctx context.Context, twitterID string) (*entity.User, error) {
	if twitterID == "" {
		return nil, nil
	}
	return u.findOne(ctx, "twitter_id = ?", twitterID)
}

// ExistsByEmail reports whether another user (not excludeID) already uses email.
func (u *DefaultUserRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).
		Model(&entity.User{}).
		Where("email = ? AND id <> ?", email, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (u *DefaultUserRepository) Save(ctx context.Context, user *entity.User) error {
	return u.db.WithContext(ctx).Omit("Notes").Save(user).Error
}

// Delete removes the user row only. Posts and notes keep their dangling owner id.
func (u *DefaultUserRepository) Delete(ctx context.Context, user *entity.User) error {
	return u.db.WithContext(ctx).Select(nil).Delete(user).Error
}

func (u *DefaultUserRepository) findOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	var user entity.User
	err := u.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &user, nil
}
