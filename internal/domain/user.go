package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the persisted account record. Email and username uniqueness is
// enforced by the store's unique indexes; the orchestrator's pre-checks are
// advisory only.
type User struct {
	ID                         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email                      string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username                   string     `gorm:"size:64;uniqueIndex;not null" json:"username"`
	AvatarURL                  string     `gorm:"size:512" json:"avatar_url"`
	PasswordHash               string     `gorm:"size:128;not null" json:"-"`
	IsVerified                 bool       `gorm:"not null;default:false" json:"is_verified"`
	VerificationToken          *string    `gorm:"size:128;uniqueIndex" json:"-"`
	VerificationTokenExpiresAt *time.Time `json:"-"`
	CreatedAt                  time.Time  `json:"created_at"`
	UpdatedAt                  time.Time  `json:"updated_at"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// HasPendingVerification reports whether the token/expiry pair is set.
// The pair is always both set or both nil.
func (u *User) HasPendingVerification() bool {
	return u.VerificationToken != nil && u.VerificationTokenExpiresAt != nil
}
