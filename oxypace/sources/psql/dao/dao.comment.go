package dao

import (
	"context"
	"errors"

	"oxypace/oxypace/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentDAO struct {
	DB *gorm.DB
}

func NewCommentDAO(db *gorm.DB) *CommentDAO {
	return &CommentDAO{DB: db}
}

func (dao *CommentDAO) CreateComment(ctx context.Context, comment *models.Comment) error {
	return dao.DB.WithContext(ctx).Create(comment).Error
}

func (dao *CommentDAO) GetCommentByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := dao.DB.WithContext(ctx).Preload("Author").First(&comment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListCommentsByPost returns a post's comments oldest first.
func (dao *CommentDAO) ListCommentsByPost(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := dao.DB.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (dao *CommentDAO) DeleteComment(ctx context.Context, id uuid.UUID) error {
	return dao.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{}).Error
}

func (dao *CommentDAO) CountComments(ctx context.Context) (int64, error) {
	var count int64
	err := dao.DB.WithContext(ctx).Model(&models.Comment{}).Count(&count).Error
	return count, err
}
