package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Suya678/Stream/internal/domain"
)

func newRepositoryDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// A single connection serializes concurrent writers the way the Postgres
	// row locks do in production.
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	return db
}

func seedUser(t *testing.T, repo UserRepository, email, username, token string) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        email,
		Username:     username,
		AvatarURL:    "https://api.dicebear.com/9.x/pixel-art/svg?seed=" + username,
		PasswordHash: "$2a$04$fakefakefakefakefakefakefakefakefakefakefakefakefakef",
	}
	if token != "" {
		expires := time.Now().UTC().Add(30 * time.Minute)
		user.VerificationToken = &token
		user.VerificationTokenExpiresAt = &expires
	}
	if err := repo.Create(user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}
