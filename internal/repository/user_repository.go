package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Suya678/Stream/internal/domain"
	"github.com/Suya678/Stream/internal/observability"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already registered")
)

// UserRepository is the record gateway over the user store. Absence is
// reported as ErrUserNotFound; any other error means the store itself
// failed.
type UserRepository interface {
	FindByID(id uuid.UUID) (*domain.User, error)
	FindByEmail(email string) (*domain.User, error)
	FindByUsername(username string) (*domain.User, error)
	FindByVerificationToken(token string) (*domain.User, error)
	Create(user *domain.User) error
	MarkVerified(id uuid.UUID, now time.Time) error
	ReissueVerificationToken(id uuid.UUID, token string, expiresAt time.Time) error
	Delete(id uuid.UUID) error
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(id uuid.UUID) (*domain.User, error) {
	return r.findOne("find_by_id", "id = ?", id)
}

func (r *GormUserRepository) FindByEmail(email string) (*domain.User, error) {
	return r.findOne("find_by_email", "email = ?", email)
}

func (r *GormUserRepository) FindByUsername(username string) (*domain.User, error) {
	return r.findOne("find_by_username", "username = ?", username)
}

func (r *GormUserRepository) FindByVerificationToken(token string) (*domain.User, error) {
	return r.findOne("find_by_verification_token", "verification_token = ?", token)
}

func (r *GormUserRepository) findOne(op string, query string, arg interface{}) (*domain.User, error) {
	var user domain.User
	err := r.db.Where(query, arg).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "user", op, "not_found")
			return nil, ErrUserNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "user", op, "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "user", op, "success")
	return &user, nil
}

// Create inserts the record; the store's unique indexes are the authority on
// email/username conflicts, so constraint violations are classified here
// rather than trusted to the orchestrator's pre-checks.
func (r *GormUserRepository) Create(user *domain.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if dup := classifyUniqueViolation(err); dup != nil {
			observability.RecordRepositoryOperation(context.Background(), "user", "create", "conflict")
			return dup
		}
		observability.RecordRepositoryOperation(context.Background(), "user", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "create", "success")
	return nil
}

// MarkVerified consumes an unexpired verification token: the guarded update
// succeeds for at most one caller per issued token.
func (r *GormUserRepository) MarkVerified(id uuid.UUID, now time.Time) error {
	res := r.db.Model(&domain.User{}).
		Where("id = ? AND verification_token IS NOT NULL AND verification_token_expires_at > ?", id, now).
		Updates(map[string]interface{}{
			"is_verified":                   true,
			"verification_token":            nil,
			"verification_token_expires_at": nil,
		})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "user", "mark_verified", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "user", "mark_verified", "not_found")
		return ErrUserNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "mark_verified", "success")
	return nil
}

// ReissueVerificationToken replaces the token/expiry pair as one update.
func (r *GormUserRepository) ReissueVerificationToken(id uuid.UUID, token string, expiresAt time.Time) error {
	res := r.db.Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"verification_token":            token,
			"verification_token_expires_at": expiresAt,
		})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "user", "reissue_token", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "user", "reissue_token", "not_found")
		return ErrUserNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "reissue_token", "success")
	return nil
}

// Delete exists for registration compensation under the fail email policy.
func (r *GormUserRepository) Delete(id uuid.UUID) error {
	res := r.db.Delete(&domain.User{}, "id = ?", id)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "user", "delete", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "user", "delete", "not_found")
		return ErrUserNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "user", "delete", "success")
	return nil
}

// classifyUniqueViolation maps a driver unique-constraint error to the column
// it names. Postgres reports `duplicate key ... "idx_users_email"` and SQLite
// `UNIQUE constraint failed: users.email`; both carry the column name.
func classifyUniqueViolation(err error) error {
	msg := strings.ToLower(err.Error())
	unique := errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
	if !unique {
		return nil
	}
	switch {
	case strings.Contains(msg, "email"):
		return ErrDuplicateEmail
	case strings.Contains(msg, "username"):
		return ErrDuplicateUsername
	default:
		return nil
	}
}
