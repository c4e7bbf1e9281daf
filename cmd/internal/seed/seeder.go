// Package seed populates an empty store with the embedded fixtures.
package seed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"simplecms/cmd/internal/auth"
	"simplecms/cmd/internal/domain/entity"
	"simplecms/cmd/internal/domain/schema"
	"simplecms/cmd/internal/domain/sqlite"
	"simplecms/cmd/internal/utils"
	"simplecms/cmd/internal/utils/uid"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

var ErrResetInProgress = errors.New("a reset is already running")

type SeedRecorder interface {
	RecordSeeded(list string, count int)
}

// Summary reports what a seed run did.
type Summary struct {
	Skipped  bool           `json:"skipped"`
	Inserted map[string]int `json:"inserted,omitempty"`
}

// Seeder drops and repopulates the store. Runs never overlap.
type Seeder struct {
	db      *gorm.DB
	data    *Dataset
	metrics SeedRecorder
	mu      sync.Mutex
}

func NewSeeder(db *gorm.DB, data *Dataset, metrics SeedRecorder) *Seeder {
	return &Seeder{db: db, data: data, metrics: metrics}
}

// InitialiseIfEmpty seeds only when no User exists. A store with any user is
// never touched.
func (s *Seeder) InitialiseIfEmpty(ctx context.Context) (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users int64
	if err := s.db.WithContext(ctx).Model(&entity.User{}).Count(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	if users > 0 {
		log.Infof("store already has %d users, skipping seed", users)
		return &Summary{Skipped: true}, nil
	}
	return s.reseed(ctx)
}

// Reset drops and reseeds the store unconditionally. A concurrent call gets
// ErrResetInProgress instead of waiting.
func (s *Seeder) Reset(ctx context.Context) (*Summary, error) {
	if !s.mu.TryLock() {
		return nil, ErrResetInProgress
	}
	defer s.mu.Unlock()

	log.Warn("resetting the store")
	return s.reseed(ctx)
}

// reseed replaces the whole store in one transaction, so a failed insert
// leaves the previous data in place.
func (s *Seeder) reseed(ctx context.Context) (*Summary, error) {
	rows, err := s.build()
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := sqlite.DropAll(tx); err != nil {
			return fmt.Errorf("failed to drop tables: %w", err)
		}
		if err := sqlite.Migrate(tx); err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		return insertRows(tx, rows)
	})
	if err != nil {
		return nil, err
	}

	inserted := s.data.Counts()
	for _, key := range []string{schema.UserList, schema.PostCategoryList, schema.PostList, schema.NoteList} {
		log.Infof("seeded %d %s items", inserted[key], key)
		if s.metrics != nil {
			s.metrics.RecordSeeded(key, inserted[key])
		}
	}
	return &Summary{Inserted: inserted}, nil
}

func insertRows(tx *gorm.DB, rows *seedRows) error {
	if len(rows.users) > 0 {
		if err := tx.Omit("Notes").Create(rows.users).Error; err != nil {
			return fmt.Errorf("failed to insert users: %w", err)
		}
	}
	if len(rows.categories) > 0 {
		if err := tx.Create(rows.categories).Error; err != nil {
			return fmt.Errorf("failed to insert categories: %w", err)
		}
	}
	if len(rows.posts) > 0 {
		if err := tx.Omit("Author").Create(rows.posts).Error; err != nil {
			return fmt.Errorf("failed to insert posts: %w", err)
		}
	}
	if len(rows.notes) > 0 {
		if err := tx.Omit("User").Create(rows.notes).Error; err != nil {
			return fmt.Errorf("failed to insert notes: %w", err)
		}
	}
	return nil
}

type seedRows struct {
	users      []*entity.User
	categories []*entity.PostCategory
	posts      []*entity.Post
	notes      []*entity.Note
}

// build turns fixtures into entities, resolving fixture keys to fresh ids
// and hashing plain-text passwords.
func (s *Seeder) build() (*seedRows, error) {
	now := utils.NowUTC()
	rows := &seedRows{}

	userIDs := make(map[string]string, len(s.data.Users))
	for _, f := range s.data.Users {
		user := &entity.User{
			ID:              uid.Generate(),
			Name:            f.Name,
			Email:           f.Email,
			TwitterID:       f.TwitterID,
			TwitterUsername: f.TwitterUsername,
			Affiliation:     entity.Affiliation(f.Affiliation),
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		if f.Password != "" {
			hash, err := auth.HashPassword(f.Password)
			if err != nil {
				return nil, fmt.Errorf("failed to hash password of %s: %w", f.Key, err)
			}
			user.PasswordHash = hash
		}

		userIDs[f.Key] = user.ID
		rows.users = append(rows.users, user)
	}

	categories := make(map[string]*entity.PostCategory, len(s.data.Categories))
	for _, f := range s.data.Categories {
		category := &entity.PostCategory{
			ID:        uid.Generate(),
			Name:      f.Name,
			Slug:      f.Slug,
			CreatedAt: now,
		}
		categories[f.Key] = category
		rows.categories = append(rows.categories, category)
	}

	for _, f := range s.data.Posts {
		post := &entity.Post{
			ID:        uid.Generate(),
			Name:      f.Name,
			Slug:      f.Slug,
			Status:    entity.PostStatusDraft,
			AuthorID:  ref(userIDs, f.Author),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if f.Status != "" {
			post.Status = entity.PostStatus(f.Status)
		}
		for _, key := range f.Categories {
			post.Categories = append(post.Categories, categories[key])
		}
		rows.posts = append(rows.posts, post)
	}

	for _, f := range s.data.Notes {
		rows.notes = append(rows.notes, &entity.Note{
			ID:        uid.Generate(),
			Note:      f.Note,
			UserID:    ref(userIDs, f.User),
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return rows, nil
}

func ref(ids map[string]string, key string) *string {
	id, ok := ids[key]
	if !ok {
		return nil
	}
	return &id
}
