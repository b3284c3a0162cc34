package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"

	"github.com/caredesk/caredesk-api/internal/domain"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendActivationEmail(user *domain.User, activationURL string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := "Activate your CareDesk account"
	html := fmt.Sprintf(`
		<h2>Welcome to CareDesk!</h2>
		<p>Hi %s,</p>
		<p>Your account has been registered. You can activate it by clicking the link below:</p>
		<p><a href="%s" style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Activate Account</a></p>
		<p>If you didn't create an account with us, please ignore this email.</p>
	`, user.Login, activationURL)

	text := fmt.Sprintf("Your CareDesk account has been registered. Activate it here: %s", activationURL)

	return m.sendEmail(user.Email, user.Login, subject, text, html)
}

func (m *MailerSendClient) SendCreationEmail(user *domain.User, resetURL string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := "Your CareDesk account has been created"
	html := fmt.Sprintf(`
		<h2>Welcome to CareDesk!</h2>
		<p>Hi %s,</p>
		<p>An administrator has created an account for you. Set your password by clicking the link below:</p>
		<p><a href="%s" style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Set Password</a></p>
	`, user.Login, resetURL)

	text := fmt.Sprintf("An account has been created for you. Set your password here: %s", resetURL)

	return m.sendEmail(user.Email, user.Login, subject, text, html)
}

func (m *MailerSendClient) SendPasswordResetEmail(user *domain.User, resetURL string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := "Reset your CareDesk password"
	html := fmt.Sprintf(`
		<h2>Password Reset</h2>
		<p>Hi %s,</p>
		<p>A password reset was requested for your account. Click the link below to choose a new password:</p>
		<p><a href="%s" style="background-color: #4CAF50; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Reset Password</a></p>
		<p>This link will expire in 24 hours.</p>
		<p>If you didn't request a reset, you can safely ignore this email.</p>
	`, user.Login, resetURL)

	text := fmt.Sprintf("Reset your CareDesk password here: %s", resetURL)

	return m.sendEmail(user.Email, user.Login, subject, text, html)
}

func (m *MailerSendClient) sendEmail(toEmail, toName, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)

	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
