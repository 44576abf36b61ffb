package dao

import (
	"context"
	"errors"
	"time"

	"oxypace/oxypace/sources/psql/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PostFilter narrows ListPosts. Zero values mean "no filter".
type PostFilter struct {
	PortalID *uuid.UUID
	AuthorID *uuid.UUID
	Before   *time.Time
	Limit    int
}

type PostDAO struct {
	DB *gorm.DB
}

func NewPostDAO(db *gorm.DB) *PostDAO {
	return &PostDAO{DB: db}
}

func (dao *PostDAO) CreatePost(ctx context.Context, post *models.Post) error {
	return dao.DB.WithContext(ctx).Create(post).Error
}

func (dao *PostDAO) GetPostByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := dao.DB.WithContext(ctx).
		Preload("Author").
		Preload("Portal").
		First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts returns posts newest first with author and portal populated.
func (dao *PostDAO) ListPosts(ctx context.Context, filter PostFilter) ([]models.Post, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	db := dao.DB.WithContext(ctx).Preload("Author").Preload("Portal")
	if filter.PortalID != nil {
		db = db.Where("portal_id = ?", *filter.PortalID)
	}
	if filter.AuthorID != nil {
		db = db.Where("author_id = ?", *filter.AuthorID)
	}
	if filter.Before != nil {
		db = db.Where("created_at < ?", filter.Before.UTC())
	}

	posts := []models.Post{}
	err := db.Order("created_at desc").Limit(limit).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (dao *PostDAO) UpdatePost(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return dao.DB.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(updates).Error
}

func (dao *PostDAO) DeletePost(ctx context.Context, id uuid.UUID) error {
	return dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Post{}).Error
	})
}

// ExistsBySourceURL reports whether an ingested post for url was already stored.
func (dao *PostDAO) ExistsBySourceURL(ctx context.Context, url string) (bool, error) {
	var count int64
	err := dao.DB.WithContext(ctx).Model(&models.Post{}).Where("source_url = ?", url).Count(&count).Error
	return count > 0, err
}

// AssignPortalToAuthorPosts files every post by authorID that is not already in
// portalID under it and returns how many rows changed.
func (dao *PostDAO) AssignPortalToAuthorPosts(ctx context.Context, authorID, portalID uuid.UUID) (int64, error) {
	res := dao.DB.WithContext(ctx).Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Where("(portal_id IS NULL OR portal_id <> ?)", portalID).
		Update("portal_id", portalID)
	return res.RowsAffected, res.Error
}

func (dao *PostDAO) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := dao.DB.WithContext(ctx).Model(&models.Post{}).Count(&count).Error
	return count, err
}

func (dao *PostDAO) CountPostsByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	err := dao.DB.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}
