package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a direct message between two users.
type Message struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	SenderID    uuid.UUID  `json:"sender_id" gorm:"type:uuid;not null;index"`
	Sender      *User      `json:"sender,omitempty" gorm:"foreignKey:SenderID;references:ID;constraint:OnDelete:CASCADE"`
	RecipientID uuid.UUID  `json:"recipient_id" gorm:"type:uuid;not null;index"`
	Recipient   *User      `json:"recipient,omitempty" gorm:"foreignKey:RecipientID;references:ID;constraint:OnDelete:CASCADE"`
	Content     string     `json:"content" gorm:"type:text;not null"`
	ReadAt      *time.Time `json:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime;index"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
