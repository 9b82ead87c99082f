// Package testutil builds throwaway databases for package tests.
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/mroshb/red_social/internal/database"
	"github.com/mroshb/red_social/internal/models"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the full schema.
// The pool is pinned to one connection because every :memory: connection
// is a separate database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := database.GormConfig(gormlogger.Silent)
	cfg.PrepareStmt = false

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// SeedUsers inserts users named after the given names and returns them in order.
func SeedUsers(t *testing.T, db *gorm.DB, names ...string) []models.User {
	t.Helper()

	users := make([]models.User, 0, len(names))
	for _, name := range names {
		u := models.User{Nombre: name, FotoPerfil: "/img/" + name + ".jpg"}
		if err := db.Create(&u).Error; err != nil {
			t.Fatalf("seed user %q: %v", name, err)
		}
		users = append(users, u)
	}
	return users
}
