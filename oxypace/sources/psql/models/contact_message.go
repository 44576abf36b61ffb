package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ContactStatusUnread   = "unread"
	ContactStatusRead     = "read"
	ContactStatusArchived = "archived"
)

// ContactSubjects maps the fixed subject values to their display labels.
var ContactSubjects = map[string]string{
	"general": "General Inquiry",
	"bug":     "Bug Report",
	"feature": "Feature Request",
	"account": "Account Issue",
	"abuse":   "Report Abuse",
	"other":   "Other",
}

// ContactMessage stores messages submitted via the contact form.
type ContactMessage struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Subject   string    `json:"subject" gorm:"type:varchar(20);not null"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	Status    string    `json:"status" gorm:"type:varchar(20);not null;default:'unread';index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}

func (c *ContactMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = ContactStatusUnread
	}
	return nil
}

// SubjectLabel returns the display label, falling back to the raw value.
func (c *ContactMessage) SubjectLabel() string {
	if label, ok := ContactSubjects[c.Subject]; ok {
		return label
	}
	return c.Subject
}
