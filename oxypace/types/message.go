package types

import (
	"strings"
	"time"

	"oxypace/oxypace/sources/psql/models"
)

type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid"`
	Content     string `json:"content" validate:"required,max=2000"`
}

func (r *SendMessageRequest) Normalize() {
	r.RecipientID = strings.TrimSpace(r.RecipientID)
	r.Content = strings.TrimSpace(r.Content)
}

// Conversation summarises the latest exchange with one counterpart.
type Conversation struct {
	User        *models.User    `json:"user"`
	LastMessage *models.Message `json:"last_message"`
	Unread      int             `json:"unread"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
