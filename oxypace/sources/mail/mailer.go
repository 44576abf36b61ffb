// Package mail sends the transactional contact-form notification over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"oxypace/oxypace/config"
	"oxypace/oxypace/sources/psql/models"

	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("mail relay not configured")

// Sender delivers a prepared message. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	sender    Sender
	from      string
	recipient string
}

// NewMailer builds a mailer on the SMTP relay from cfg. A mailer without a
// host or recipient is returned but every send fails with ErrNotConfigured.
func NewMailer(cfg config.Config) *Mailer {
	m := &Mailer{from: cfg.MailFrom, recipient: cfg.ContactRecipient}
	if cfg.SMTPHost != "" {
		m.sender = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	}
	return m
}

// NewMailerWithSender is used by tests to capture outgoing messages.
func NewMailerWithSender(sender Sender, from, recipient string) *Mailer {
	return &Mailer{sender: sender, from: from, recipient: recipient}
}

// ContactSubject is the mail subject line for a contact submission.
func ContactSubject(msg *models.ContactMessage, user *models.User) string {
	return fmt.Sprintf("[Oxypace Contact] %s from %s", msg.SubjectLabel(), user.Username)
}

// ContactBody renders the plain-text body for a contact submission.
func ContactBody(msg *models.ContactMessage, user *models.User) string {
	var b strings.Builder
	b.WriteString("A new contact form submission was received.\n\n")
	fmt.Fprintf(&b, "User:      %s (%s)\n", user.Username, user.ID)
	fmt.Fprintf(&b, "Email:     %s\n", user.Email)
	fmt.Fprintf(&b, "Subject:   %s\n", msg.SubjectLabel())
	fmt.Fprintf(&b, "Submitted: %s\n\n", msg.CreatedAt.UTC().Format(time.RFC1123))
	b.WriteString("Message:\n")
	b.WriteString(msg.Message)
	b.WriteString("\n")
	return b.String()
}

// SendContactNotification mails the contact recipient about msg.
func (m *Mailer) SendContactNotification(ctx context.Context, msg *models.ContactMessage, user *models.User) error {
	if m.sender == nil || m.recipient == "" {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", m.recipient)
	if user.Email != "" {
		gm.SetHeader("Reply-To", user.Email)
	}
	gm.SetHeader("Subject", ContactSubject(msg, user))
	gm.SetBody("text/plain", ContactBody(msg, user))
	if err := m.sender.DialAndSend(gm); err != nil {
		return fmt.Errorf("send contact notification: %w", err)
	}
	return nil
}
