package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MediaTypeImage   = "image"
	MediaTypeGIF     = "gif"
	MediaTypeYouTube = "youtube"
)

type Post struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	AuthorID  uuid.UUID  `json:"author_id" gorm:"type:uuid;not null;index"`
	Author    *User      `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE"`
	Content   string     `json:"content" gorm:"type:text;not null;default:''"`
	MediaURL  string     `json:"media_url,omitempty" gorm:"type:varchar(1024);default:''"`
	MediaType string     `json:"media_type,omitempty" gorm:"type:varchar(20);default:''"`
	PortalID  *uuid.UUID `json:"portal_id,omitempty" gorm:"type:uuid;index"`
	Portal    *Portal    `json:"portal,omitempty" gorm:"foreignKey:PortalID;references:ID;constraint:OnDelete:SET NULL"`
	SourceURL string     `json:"source_url,omitempty" gorm:"type:varchar(1024);index"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
