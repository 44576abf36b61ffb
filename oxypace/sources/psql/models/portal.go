package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Portal is a named content channel posts can be filed under.
type Portal struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Slug         string     `json:"slug" gorm:"type:varchar(40);not null;uniqueIndex"`
	Name         string     `json:"name" gorm:"type:varchar(80);not null"`
	Description  string     `json:"description" gorm:"type:varchar(500);default:''"`
	IsBotChannel bool       `json:"is_bot_channel" gorm:"not null;default:false"`
	CreatedByID  *uuid.UUID `json:"created_by_id,omitempty" gorm:"type:uuid"`
	CreatedBy    *User      `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID;references:ID;constraint:OnDelete:SET NULL"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

func (Portal) TableName() string {
	return "portals"
}

func (p *Portal) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
