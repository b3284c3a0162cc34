package mailer

import "github.com/caredesk/caredesk-api/internal/domain"

// Service delivers account lifecycle mail. All sends are best-effort: a
// delivery failure never rolls back the lifecycle operation that caused it.
type Service interface {
	SendActivationEmail(user *domain.User, activationURL string) error
	SendCreationEmail(user *domain.User, resetURL string) error
	SendPasswordResetEmail(user *domain.User, resetURL string) error
}
