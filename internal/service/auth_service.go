package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/Suya678/Stream/internal/config"
	"github.com/Suya678/Stream/internal/domain"
	"github.com/Suya678/Stream/internal/observability"
	"github.com/Suya678/Stream/internal/repository"
	"github.com/Suya678/Stream/internal/security"
)

var (
	ErrMissingFields            = errors.New("all fields are required")
	ErrInvalidPasswordFormat    = errors.New("password must be 10-30 characters with an uppercase letter, a lowercase letter, a digit, a symbol and no spaces")
	ErrInvalidEmailFormat       = errors.New("email is invalid")
	ErrEmailTaken               = errors.New("user with this email already exists")
	ErrUsernameTaken            = errors.New("user with this username already exists")
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrInvalidVerificationToken = errors.New("verification token is invalid or expired")
	ErrEmailDelivery            = errors.New("verification email could not be delivered")
)

type SignUpInput struct {
	Email    string
	Password string
	Username string
}

type SignInInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User         *domain.User
	SessionToken string
}

// AuthServiceInterface is what the HTTP layer depends on; handlers stub it
// in tests.
type AuthServiceInterface interface {
	SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error)
	SignIn(ctx context.Context, in SignInInput) (*AuthResult, error)
	VerifyEmail(ctx context.Context, token string) (*domain.User, error)
	ResendVerification(ctx context.Context, email string) error
}

// AuthService sequences the registration and sign-in flows: input shape,
// uniqueness, hashing, verification-token issue, persistence, session-token
// issue.
type AuthService struct {
	users              repository.UserRepository
	hasher             *security.PasswordHasher
	jwt                *security.JWTManager
	notifier           EmailVerificationNotifier
	verificationTTL    time.Duration
	avatarBaseURL      string
	emailFailurePolicy string
	logger             *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	hasher *security.PasswordHasher,
	jwt *security.JWTManager,
	notifier EmailVerificationNotifier,
	cfg *config.Config,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:              users,
		hasher:             hasher,
		jwt:                jwt,
		notifier:           notifier,
		verificationTTL:    cfg.VerificationTokenTTL,
		avatarBaseURL:      cfg.AvatarBaseURL,
		emailFailurePolicy: cfg.EmailFailurePolicy,
		logger:             logger,
	}
}

func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)
	if email == "" || strings.TrimSpace(in.Password) == "" || username == "" {
		observability.RecordAuthEvent(ctx, "signup", "invalid_input")
		return nil, ErrMissingFields
	}
	if !security.ValidatePasswordFormat(in.Password) {
		observability.RecordAuthEvent(ctx, "signup", "invalid_input")
		return nil, ErrInvalidPasswordFormat
	}
	if !security.ValidateEmailFormat(email) {
		observability.RecordAuthEvent(ctx, "signup", "invalid_input")
		return nil, ErrInvalidEmailFormat
	}

	// Advisory pre-checks; the unique constraints on create remain the
	// authority under concurrent registration.
	if _, err := s.users.FindByEmail(email); err == nil {
		observability.RecordAuthEvent(ctx, "signup", "conflict")
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if _, err := s.users.FindByUsername(username); err == nil {
		observability.RecordAuthEvent(ctx, "signup", "conflict")
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	verification, err := security.NewVerificationToken(s.verificationTTL)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:                      email,
		Username:                   username,
		AvatarURL:                  s.avatarURL(username),
		PasswordHash:               hash,
		IsVerified:                 false,
		VerificationToken:          &verification.Token,
		VerificationTokenExpiresAt: &verification.ExpiresAt,
	}
	if err := s.users.Create(user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			observability.RecordAuthEvent(ctx, "signup", "conflict")
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateUsername):
			observability.RecordAuthEvent(ctx, "signup", "conflict")
			return nil, ErrUsernameTaken
		default:
			return nil, fmt.Errorf("create user: %w", err)
		}
	}

	if err := s.notifyVerification(ctx, user, verification); err != nil {
		return nil, err
	}

	token, err := s.jwt.SignSessionToken(user.Username, user.Email)
	if err != nil {
		return nil, err
	}
	observability.RecordAuthEvent(ctx, "signup", "success")
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return &AuthResult{User: user, SessionToken: token}, nil
}

// notifyVerification applies the configured delivery-failure policy: log and
// continue, or compensate by deleting the just-created record and fail.
func (s *AuthService) notifyVerification(ctx context.Context, user *domain.User, verification security.VerificationToken) error {
	err := s.notifier.SendEmailVerification(ctx, VerificationNotification{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Token:     verification.Token,
		ExpiresAt: verification.ExpiresAt,
	})
	if err == nil {
		return nil
	}
	if s.emailFailurePolicy == config.EmailFailurePolicyFail {
		if delErr := s.users.Delete(user.ID); delErr != nil {
			s.logger.ErrorContext(ctx, "registration compensation failed", "user_id", user.ID, "error", delErr)
		}
		observability.RecordAuthEvent(ctx, "signup", "email_failed")
		return fmt.Errorf("%w: %w", ErrEmailDelivery, err)
	}
	s.logger.ErrorContext(ctx, "verification email failed, user can request a resend",
		"user_id", user.ID, "email", user.Email, "error", err)
	return nil
}

func (s *AuthService) SignIn(ctx context.Context, in SignInInput) (*AuthResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		observability.RecordAuthEvent(ctx, "signin", "invalid_input")
		return nil, ErrMissingFields
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same sentinel as a bad password so callers cannot tell which
			// check failed.
			observability.RecordAuthEvent(ctx, "signin", "rejected")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if !s.hasher.Verify(in.Password, user.PasswordHash) {
		observability.RecordAuthEvent(ctx, "signin", "rejected")
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.SignSessionToken(user.Username, user.Email)
	if err != nil {
		return nil, err
	}
	observability.RecordAuthEvent(ctx, "signin", "success")
	return &AuthResult{User: user, SessionToken: token}, nil
}

// VerifyEmail consumes a verification token: at most one call per issued
// token succeeds, enforced by the repository's guarded update.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingFields
	}
	user, err := s.users.FindByVerificationToken(token)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAuthEvent(ctx, "verify_email", "rejected")
			return nil, ErrInvalidVerificationToken
		}
		return nil, fmt.Errorf("lookup verification token: %w", err)
	}

	now := time.Now().UTC()
	if user.VerificationTokenExpiresAt == nil || !now.Before(*user.VerificationTokenExpiresAt) {
		observability.RecordAuthEvent(ctx, "verify_email", "expired")
		return nil, ErrInvalidVerificationToken
	}
	if err := s.users.MarkVerified(user.ID, now); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Lost the race against a concurrent consumption.
			observability.RecordAuthEvent(ctx, "verify_email", "rejected")
			return nil, ErrInvalidVerificationToken
		}
		return nil, fmt.Errorf("mark verified: %w", err)
	}
	user.IsVerified = true
	user.VerificationToken = nil
	user.VerificationTokenExpiresAt = nil
	observability.RecordAuthEvent(ctx, "verify_email", "success")
	return user, nil
}

// ResendVerification reissues the token pair and re-delivers the email. It
// reports success for unknown or already-verified addresses so the endpoint
// does not reveal which emails have accounts.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrMissingFields
	}
	if !security.ValidateEmailFormat(email) {
		return ErrInvalidEmailFormat
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			observability.RecordAuthEvent(ctx, "resend_verification", "unknown_email")
			return nil
		}
		return fmt.Errorf("lookup email: %w", err)
	}
	if user.IsVerified {
		observability.RecordAuthEvent(ctx, "resend_verification", "already_verified")
		return nil
	}

	verification, err := security.NewVerificationToken(s.verificationTTL)
	if err != nil {
		return err
	}
	if err := s.users.ReissueVerificationToken(user.ID, verification.Token, verification.ExpiresAt); err != nil {
		return fmt.Errorf("reissue verification token: %w", err)
	}
	if err := s.notifier.SendEmailVerification(ctx, VerificationNotification{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Token:     verification.Token,
		ExpiresAt: verification.ExpiresAt,
	}); err != nil {
		observability.RecordAuthEvent(ctx, "resend_verification", "email_failed")
		return fmt.Errorf("%w: %w", ErrEmailDelivery, err)
	}
	observability.RecordAuthEvent(ctx, "resend_verification", "success")
	return nil
}

func (s *AuthService) avatarURL(username string) string {
	return fmt.Sprintf("%s?seed=%s", s.avatarBaseURL, url.QueryEscape(username))
}
