package controllers

import (
	"context"
	"strings"

	"oxypace/oxypace/sources/psql/dao"
	"oxypace/oxypace/sources/psql/models"
	"oxypace/oxypace/types"
	"oxypace/oxypace/utils/errs"
	"oxypace/oxypace/utils/logging"
	"oxypace/oxypace/utils/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContactNotifier delivers the notification for a stored contact message.
type ContactNotifier interface {
	SendContactNotification(ctx context.Context, msg *models.ContactMessage, user *models.User) error
}

type ContactController struct {
	contactDAO *dao.ContactMessageDAO
	userDAO    *dao.UserDAO
	notifier   ContactNotifier
}

func NewContactController(contactDAO *dao.ContactMessageDAO, userDAO *dao.UserDAO, notifier ContactNotifier) *ContactController {
	return &ContactController{
		contactDAO: contactDAO,
		userDAO:    userDAO,
		notifier:   notifier,
	}
}

// Submit stores the message and mails the contact recipient. A failed send is
// logged and does not fail the submission.
func (c *ContactController) Submit(ctx context.Context, userID uuid.UUID, req types.ContactRequest) (*models.ContactMessage, error) {
	user, err := c.userDAO.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.Unauthorized("account no longer exists")
	}
	msg := &models.ContactMessage{
		UserID:  user.ID,
		Subject: req.Subject,
		Message: strings.TrimSpace(req.Message),
	}
	if err := c.contactDAO.CreateContactMessage(ctx, msg); err != nil {
		return nil, err
	}
	metrics.RecordCreated("contact")

	if c.notifier != nil {
		if err := c.notifier.SendContactNotification(ctx, msg, user); err != nil {
			logging.ErrorLogger.Error("contact notification failed",
				zap.String("contact_id", msg.ID.String()),
				zap.Error(err),
			)
		}
	}
	return msg, nil
}

func (c *ContactController) List(ctx context.Context, status string) ([]models.ContactMessage, error) {
	switch status {
	case "", models.ContactStatusUnread, models.ContactStatusRead, models.ContactStatusArchived:
	default:
		return nil, errs.BadRequest("status must be one of: unread, read, archived")
	}
	return c.contactDAO.ListContactMessages(ctx, status)
}

func (c *ContactController) UpdateStatus(ctx context.Context, id uuid.UUID, req types.ContactStatusRequest) (*models.ContactMessage, error) {
	msg, err := c.contactDAO.GetContactMessageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, errs.NotFound("contact message not found")
	}
	if err := c.contactDAO.UpdateStatus(ctx, id, req.Status); err != nil {
		return nil, err
	}
	msg.Status = req.Status
	return msg, nil
}
