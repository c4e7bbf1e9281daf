package sqlite

import (
	"time"

	"simplecms/cmd/internal/domain/entity"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models returns every persisted entity in dependency order (referenced tables first).
func Models() []any {
	return []any{
		&entity.User{},
		&entity.PostCategory{},
		&entity.Post{},
		&entity.Note{},
		&entity.Session{},
		&entity.Connection{},
	}
}

// Init opens the sqlite database at path and migrates every model.
// Use ":memory:" for a throwaway database.
func Init(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),

		// Owners may be deleted while their posts and notes stay behind.
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}

	// A single connection keeps writers serialized and, for ":memory:",
	// keeps every query on the same database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err = Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// DropAll drops every table, including the post/category join table.
func DropAll(db *gorm.DB) error {
	models := Models()
	tables := make([]any, 0, len(models)+1)
	tables = append(tables, "post_category_links")
	for i := len(models) - 1; i >= 0; i-- {
		tables = append(tables, models[i])
	}
	return db.Migrator().DropTable(tables...)
}
