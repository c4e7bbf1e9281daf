package repository

import (
	"context"
	"errors"

	"simplecms/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultNoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *DefaultNoteRepository {
	return &DefaultNoteRepository{db: db}
}

func (d *DefaultNoteRepository) FindAll(ctx context.Context) ([]*entity.Note, error) {
	var notes []*entity.Note
	err := d.db.WithContext(ctx).Order("created_at, id").Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (d *DefaultNoteRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.Note, error) {
	var notes []*entity.Note
	err := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, id").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (d *DefaultNoteRepository) FindByID(ctx context.Context, id string) (*entity.Note, error) {
	var note entity.Note
	err := d.db.WithContext(ctx).Where("id = ?", id).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (d *DefaultNoteRepository) Save(ctx context.Context, note *entity.Note) error {
	return d.db.WithContext(ctx).Omit("User").Save(note).Error
}

func (d *DefaultNoteRepository) Delete(ctx context.Context, note *entity.Note) error {
	return d.db.WithContext(ctx).Delete(note).Error
}
