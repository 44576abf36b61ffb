package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string         `json:"-" gorm:"type:varchar(254);not null;uniqueIndex"`
	Username     string         `json:"username" gorm:"type:varchar(30);not null;uniqueIndex"`
	PasswordHash string         `json:"-" gorm:"type:varchar(255);not null"`
	DisplayName  string         `json:"display_name" gorm:"type:varchar(50);default:''"`
	Bio          string         `json:"bio" gorm:"type:varchar(500);default:''"`
	AvatarURL    string         `json:"avatar_url" gorm:"type:varchar(512);default:''"`
	Verified     bool           `json:"verified" gorm:"not null;default:false"`
	IsBot        bool           `json:"is_bot" gorm:"not null;default:false"`
	Role         string         `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	CreatedAt    time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
