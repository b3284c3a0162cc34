package mailer

import (
	"fmt"

	"github.com/caredesk/caredesk-api/internal/domain"
	"github.com/caredesk/caredesk-api/pkg/logger"
)

// DevMailer prints mail to the log instead of sending it.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendActivationEmail(user *domain.User, activationURL string) error {
	logger.Info("📧 [DEV MAIL] Activation Email",
		"to", user.Email,
		"login", user.Login,
		"activation_url", activationURL,
	)
	d.print("ACTIVATION EMAIL", user.Email, "Activate your CareDesk account", activationURL)
	return nil
}

func (d *DevMailer) SendCreationEmail(user *domain.User, resetURL string) error {
	logger.Info("📧 [DEV MAIL] Creation Email",
		"to", user.Email,
		"login", user.Login,
		"reset_url", resetURL,
	)
	d.print("ACCOUNT CREATED EMAIL", user.Email, "Your CareDesk account has been created", resetURL)
	return nil
}

func (d *DevMailer) SendPasswordResetEmail(user *domain.User, resetURL string) error {
	logger.Info("📧 [DEV MAIL] Password Reset Email",
		"to", user.Email,
		"login", user.Login,
		"reset_url", resetURL,
	)
	d.print("PASSWORD RESET EMAIL", user.Email, "Reset your CareDesk password", resetURL)
	return nil
}

func (d *DevMailer) print(kind, to, subject, link string) {
	fmt.Printf("\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"📧 %s (DEV MODE)\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"+
		"To: %s\n"+
		"Subject: %s\n"+
		"\n"+
		"Link: %s\n"+
		"━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n",
		kind, to, subject, link)
}
