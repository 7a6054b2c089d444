package service

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/resend/resend-go/v2"

	"github.com/Suya678/Stream/internal/observability"
)

type VerificationNotification struct {
	UserID    uuid.UUID
	Email     string
	Username  string
	Token     string
	ExpiresAt time.Time
}

type EmailVerificationNotifier interface {
	SendEmailVerification(ctx context.Context, notification VerificationNotification) error
}

// DevEmailVerificationNotifier logs the token instead of delivering it.
// Used outside production and whenever no provider key is configured.
type DevEmailVerificationNotifier struct {
	logger *slog.Logger
}

func NewDevEmailVerificationNotifier(logger *slog.Logger) *DevEmailVerificationNotifier {
	return &DevEmailVerificationNotifier{logger: logger}
}

func (n *DevEmailVerificationNotifier) SendEmailVerification(ctx context.Context, notification VerificationNotification) error {
	n.logger.InfoContext(ctx, "email verification token issued",
		"user_id", notification.UserID,
		"email", notification.Email,
		"token", notification.Token,
		"expires_at", notification.ExpiresAt,
	)
	observability.RecordEmailDelivery(ctx, "dev", "success")
	return nil
}

// ResendEmailVerificationNotifier delivers the verification code through the
// Resend API.
type ResendEmailVerificationNotifier struct {
	client *resend.Client
	from   string
}

func NewResendEmailVerificationNotifier(apiKey, from string) *ResendEmailVerificationNotifier {
	return &ResendEmailVerificationNotifier{client: resend.NewClient(apiKey), from: from}
}

func (n *ResendEmailVerificationNotifier) SendEmailVerification(ctx context.Context, notification VerificationNotification) error {
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      []string{notification.Email},
		Subject: "Verify Your Account",
		Html:    verificationEmailHTML(notification),
	}
	if _, err := n.client.Emails.SendWithContext(ctx, params); err != nil {
		observability.RecordEmailDelivery(ctx, "resend", "error")
		return fmt.Errorf("send verification email: %w", err)
	}
	observability.RecordEmailDelivery(ctx, "resend", "success")
	return nil
}

func verificationEmailHTML(notification VerificationNotification) string {
	return fmt.Sprintf(`
    <div style="font-family: Arial, sans-serif; padding: 20px; max-width: 600px;">
      <h2 style="color: #4CAF50;">Verify Your Email</h2>
      <p>Hi %s,</p>
      <p>Thank you for signing up! Please use the verification code below:</p>
      <div style="background-color: #f4f4f4; padding: 15px; border-radius: 5px; text-align: center; margin: 20px 0;">
        <p style="font-size: 24px; font-weight: bold; letter-spacing: 3px; color: #333; margin: 0;">%s</p>
      </div>
      <p style="color: #666; font-size: 14px;">Enter this code to verify your account.</p>
      <p style="color: #999; font-size: 12px; margin-top: 20px;">This code expires at %s.</p>
    </div>`,
		html.EscapeString(notification.Username),
		notification.Token,
		notification.ExpiresAt.Format(time.RFC1123),
	)
}
