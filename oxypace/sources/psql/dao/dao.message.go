package dao

import (
	"context"
	"errors"
	"time"

	"oxypace/oxypace/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageDAO struct {
	DB *gorm.DB
}

func NewMessageDAO(db *gorm.DB) *MessageDAO {
	return &MessageDAO{DB: db}
}

func (dao *MessageDAO) CreateMessage(ctx context.Context, msg *models.Message) error {
	return dao.DB.WithContext(ctx).Create(msg).Error
}

// ListThread returns up to limit messages exchanged between a and b, oldest first.
func (dao *MessageDAO) ListThread(ctx context.Context, a, b uuid.UUID, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	msgs := []models.Message{}
	err := dao.DB.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order("created_at desc").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// MarkThreadRead marks every unread message from sender to recipient as read.
func (dao *MessageDAO) MarkThreadRead(ctx context.Context, recipient, sender uuid.UUID) (int64, error) {
	res := dao.DB.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND read_at IS NULL", recipient, sender).
		Update("read_at", time.Now())
	return res.RowsAffected, res.Error
}

func (dao *MessageDAO) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := dao.DB.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// CountUnreadBySender returns, per sender, how many messages to userID are unread.
func (dao *MessageDAO) CountUnreadBySender(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]int64, error) {
	var rows []struct {
		SenderID uuid.UUID
		Unread   int64
	}
	err := dao.DB.WithContext(ctx).Model(&models.Message{}).
		Select("sender_id, COUNT(*) AS unread").
		Where("recipient_id = ? AND read_at IS NULL", userID).
		Group("sender_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		out[row.SenderID] = row.Unread
	}
	return out, nil
}

// ListCounterparts returns the users userID has exchanged messages with,
// most recently active first.
func (dao *MessageDAO) ListCounterparts(ctx context.Context, userID uuid.UUID, limit int) ([]uuid.UUID, error) {
	var rows []struct {
		OtherID uuid.UUID
	}
	err := dao.DB.WithContext(ctx).Model(&models.Message{}).
		Select("CASE WHEN sender_id = ? THEN recipient_id ELSE sender_id END AS other_id", userID).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Group("other_id").
		Order("MAX(created_at) DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.OtherID)
	}
	return ids, nil
}

// LatestBetween returns the newest message exchanged between a and b with both
// parties populated, or nil when they never wrote to each other.
func (dao *MessageDAO) LatestBetween(ctx context.Context, a, b uuid.UUID) (*models.Message, error) {
	var msg models.Message
	err := dao.DB.WithContext(ctx).
		Preload("Sender").
		Preload("Recipient").
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order("created_at desc").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (dao *MessageDAO) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	err := dao.DB.WithContext(ctx).Model(&models.Message{}).Count(&count).Error
	return count, err
}
