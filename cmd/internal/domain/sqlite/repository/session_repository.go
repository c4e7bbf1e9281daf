package repository

import (
	"context"
	"errors"

	"simplecms/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultSessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *DefaultSessionRepository {
	return &DefaultSessionRepository{db: db}
}

func (s *DefaultSessionRepository) Create(ctx context.Context, session *entity.Session) error {
	return s.db.WithContext(ctx).Create(session).Error
}

// FindActiveByID returns the session if it exists and has not expired at now, nil otherwise.
func (s *DefaultSessionRepository) FindActiveByID(ctx context.Context, id string, now int64) (*entity.Session, error) {
	var session entity.Session
	err := s.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, now).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *DefaultSessionRepository) DeleteByID(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&entity.Session{}).Error
}

func (s *DefaultSessionRepository) DeleteExpired(ctx context.Context, now int64) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&entity.Session{})
	return result.RowsAffected, result.Error
}
