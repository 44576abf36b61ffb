package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"oxypace/oxypace/config"
	"oxypace/oxypace/sources/psql/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	sent []*gomail.Message
	err  error
}

func (c *captureSender) DialAndSend(m ...*gomail.Message) error {
	c.sent = append(c.sent, m...)
	return c.err
}

func fixture() (*models.ContactMessage, *models.User) {
	user := &models.User{ID: uuid.New(), Username: "ann", Email: "ann@oxypace.com"}
	msg := &models.ContactMessage{
		UserID:    user.ID,
		Subject:   "bug",
		Message:   "The feed shows the same post twice.",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	return msg, user
}

func TestContactSubjectAndBody(t *testing.T) {
	msg, user := fixture()

	assert.Equal(t, "[Oxypace Contact] Bug Report from ann", ContactSubject(msg, user))

	body := ContactBody(msg, user)
	assert.Contains(t, body, "ann@oxypace.com")
	assert.Contains(t, body, "Subject:   Bug Report")
	assert.Contains(t, body, "The feed shows the same post twice.")
	assert.Contains(t, body, "Sun, 01 Mar 2026 12:00:00 UTC")
}

func TestSendContactNotification(t *testing.T) {
	msg, user := fixture()
	sender := &captureSender{}
	m := NewMailerWithSender(sender, "no-reply@oxypace.com", "support@oxypace.com")

	require.NoError(t, m.SendContactNotification(context.Background(), msg, user))
	require.Len(t, sender.sent, 1)

	gm := sender.sent[0]
	assert.Equal(t, []string{"support@oxypace.com"}, gm.GetHeader("To"))
	assert.Equal(t, []string{"ann@oxypace.com"}, gm.GetHeader("Reply-To"))

	var buf bytes.Buffer
	_, err := gm.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Bug Report from ann")
}

func TestSendContactNotificationErrors(t *testing.T) {
	msg, user := fixture()

	unconfigured := NewMailer(config.Config{})
	assert.ErrorIs(t, unconfigured.SendContactNotification(context.Background(), msg, user), ErrNotConfigured)

	failing := NewMailerWithSender(&captureSender{err: errors.New("relay down")}, "a@b.c", "d@e.f")
	err := failing.SendContactNotification(context.Background(), msg, user)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "relay down")
}
