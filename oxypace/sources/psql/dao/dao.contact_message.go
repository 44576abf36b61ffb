package dao

import (
	"context"
	"errors"

	"oxypace/oxypace/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactMessageDAO struct {
	DB *gorm.DB
}

func NewContactMessageDAO(db *gorm.DB) *ContactMessageDAO {
	return &ContactMessageDAO{DB: db}
}

func (dao *ContactMessageDAO) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	return dao.DB.WithContext(ctx).Create(msg).Error
}

func (dao *ContactMessageDAO) GetContactMessageByID(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	err := dao.DB.WithContext(ctx).Preload("User").First(&msg, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListContactMessages returns messages newest first, optionally filtered by status.
func (dao *ContactMessageDAO) ListContactMessages(ctx context.Context, status string) ([]models.ContactMessage, error) {
	msgs := []models.ContactMessage{}
	db := dao.DB.WithContext(ctx).Preload("User")
	if status != "" {
		db = db.Where("status = ?", status)
	}
	err := db.Order("created_at desc").Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (dao *ContactMessageDAO) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return dao.DB.WithContext(ctx).Model(&models.ContactMessage{}).Where("id = ?", id).Update("status", status).Error
}
