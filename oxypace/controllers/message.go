package controllers

import (
	"context"
	"strings"

	"oxypace/oxypace/sources/psql/dao"
	"oxypace/oxypace/sources/psql/models"
	"oxypace/oxypace/types"
	"oxypace/oxypace/utils/errs"
	"oxypace/oxypace/utils/metrics"

	"github.com/google/uuid"
)

type MessageController struct {
	messageDAO *dao.MessageDAO
	userDAO    *dao.UserDAO
	events     Publisher
}

func NewMessageController(messageDAO *dao.MessageDAO, userDAO *dao.UserDAO, events Publisher) *MessageController {
	return &MessageController{
		messageDAO: messageDAO,
		userDAO:    userDAO,
		events:     publisherOrNop(events),
	}
}

func (c *MessageController) SendMessage(ctx context.Context, senderID uuid.UUID, req types.SendMessageRequest) (*models.Message, error) {
	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		return nil, errs.BadRequest("recipient_id must be a valid id")
	}
	if recipientID == senderID {
		return nil, errs.BadRequest("cannot send a message to yourself")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errs.BadRequest("content is required")
	}
	sender, err := c.userDAO.GetUserByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, errs.Unauthorized("account no longer exists")
	}
	recipient, err := c.userDAO.GetUserByID(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, errs.NotFound("recipient not found")
	}

	msg := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
	}
	if err := c.messageDAO.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	msg.Sender = sender
	msg.Recipient = recipient
	metrics.RecordCreated("message")
	c.events.PublishTo(types.EventMessageCreated, msg, senderID, recipientID)
	return msg, nil
}

// Thread returns the exchange with another user and marks their messages read.
func (c *MessageController) Thread(ctx context.Context, userID, otherID uuid.UUID, limit int) ([]models.Message, error) {
	other, err := c.userDAO.GetUserByID(ctx, otherID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, errs.NotFound("user not found")
	}
	if _, err := c.messageDAO.MarkThreadRead(ctx, userID, otherID); err != nil {
		return nil, err
	}
	return c.messageDAO.ListThread(ctx, userID, otherID, limit)
}

// Conversations returns one entry per counterpart, most recently active first.
func (c *MessageController) Conversations(ctx context.Context, userID uuid.UUID) ([]types.Conversation, error) {
	others, err := c.messageDAO.ListCounterparts(ctx, userID, dao.MaxPageSize)
	if err != nil {
		return nil, err
	}
	unread, err := c.messageDAO.CountUnreadBySender(ctx, userID)
	if err != nil {
		return nil, err
	}
	convs := make([]types.Conversation, 0, len(others))
	for _, otherID := range others {
		last, err := c.messageDAO.LatestBetween(ctx, userID, otherID)
		if err != nil {
			return nil, err
		}
		if last == nil {
			continue
		}
		other := last.Recipient
		if last.RecipientID == userID {
			other = last.Sender
		}
		if other == nil {
			// counterpart was deleted
			continue
		}
		convs = append(convs, types.Conversation{
			User:        other,
			LastMessage: last,
			Unread:      int(unread[otherID]),
			UpdatedAt:   last.CreatedAt,
		})
	}
	return convs, nil
}

func (c *MessageController) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return c.messageDAO.CountUnread(ctx, userID)
}
