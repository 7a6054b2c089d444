package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Suya678/Stream/internal/config"
	"github.com/Suya678/Stream/internal/database"
	"github.com/Suya678/Stream/internal/domain"
	"github.com/Suya678/Stream/internal/http/handler"
	"github.com/Suya678/Stream/internal/http/router"
	"github.com/Suya678/Stream/internal/repository"
	"github.com/Suya678/Stream/internal/security"
	"github.com/Suya678/Stream/internal/service"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []service.VerificationNotification
}

func (n *recordingNotifier) SendEmailVerification(_ context.Context, notification service.VerificationNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func (n *recordingNotifier) last() service.VerificationNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.sent[len(n.sent)-1]
}

type testStack struct {
	db       *gorm.DB
	users    repository.UserRepository
	notifier *recordingNotifier
	server   *httptest.Server
	client   *http.Client
}

func newAuthTestStack(t *testing.T) *testStack {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{
		Env:                  "test",
		LogLevel:             "error",
		JWTSecret:            "abcdefghijklmnopqrstuvwxyz123456",
		SessionTokenTTL:      168 * time.Hour,
		VerificationTokenTTL: 24 * time.Hour,
		BcryptCost:           bcrypt.MinCost,
		CookieSameSite:       "strict",
		EmailFailurePolicy:   config.EmailFailurePolicyLog,
		AvatarBaseURL:        "https://api.dicebear.com/9.x/pixel-art/svg",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	users := repository.NewUserRepository(db)
	hasher := security.NewPasswordHasher(cfg.BcryptCost)
	jwt := security.NewJWTManager(cfg.JWTSecret, cfg.SessionTokenTTL)
	cookies := security.NewCookieManager("", false, cfg.CookieSameSite)
	notifier := &recordingNotifier{}

	authSvc := service.NewAuthService(users, hasher, jwt, notifier, cfg, logger)
	authHandler := handler.NewAuthHandler(authSvc, cookies, jwt, logger)

	srv := httptest.NewServer(router.New(router.Dependencies{Auth: authHandler, Logger: logger}))
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}

	return &testStack{
		db:       db,
		users:    users,
		notifier: notifier,
		server:   srv,
		client:   &http.Client{Jar: jar},
	}
}

func (s *testStack) postJSON(t *testing.T, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := s.client.Post(s.server.URL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()

	var envelope map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode %s response: %v", path, err)
	}
	return resp, envelope
}

func sessionCookieFrom(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == security.SessionCookieName {
			return c
		}
	}
	return nil
}

func (s *testStack) mustFindUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := s.users.FindByEmail(email)
	if err != nil {
		t.Fatalf("find user %s: %v", email, err)
	}
	return user
}
