package controllers

import (
	"context"
	"fmt"
	"strings"

	"oxypace/oxypace/sources/psql/dao"
	"oxypace/oxypace/sources/psql/models"
	"oxypace/oxypace/types"
	"oxypace/oxypace/utils/errs"
	"oxypace/oxypace/utils/linkify"
	"oxypace/oxypace/utils/logging"
	"oxypace/oxypace/utils/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PostController struct {
	postDAO   *dao.PostDAO
	portalDAO *dao.PortalDAO
	userDAO   *dao.UserDAO
	events    Publisher
}

func NewPostController(postDAO *dao.PostDAO, portalDAO *dao.PortalDAO, userDAO *dao.UserDAO, events Publisher) *PostController {
	return &PostController{
		postDAO:   postDAO,
		portalDAO: portalDAO,
		userDAO:   userDAO,
		events:    publisherOrNop(events),
	}
}

// ResolveMedia fills in the media fields of a new post. An explicit media_url
// without a type is classified; otherwise the first YouTube link in the content
// becomes the embed.
func ResolveMedia(content, mediaURL, mediaType string) (string, string) {
	mediaURL = strings.TrimSpace(mediaURL)
	if mediaURL != "" {
		kind, normalized := linkify.Classify(mediaURL)
		if mediaType == "" {
			mediaType = kind
		}
		if mediaType == models.MediaTypeYouTube {
			mediaURL = normalized
		}
		return mediaURL, mediaType
	}
	if embed, ok := linkify.FirstYouTube(content); ok {
		return embed, models.MediaTypeYouTube
	}
	return "", ""
}

func (c *PostController) CreatePost(ctx context.Context, userID uuid.UUID, req types.CreatePostRequest) (*models.Post, error) {
	author, err := c.userDAO.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, errs.Unauthorized("account no longer exists")
	}

	post := &models.Post{
		AuthorID: author.ID,
		Content:  strings.TrimSpace(req.Content),
	}
	if req.Portal != "" {
		portal, err := c.portalDAO.GetPortalBySlug(ctx, req.Portal)
		if err != nil {
			return nil, err
		}
		if portal == nil {
			return nil, errs.NotFound("portal not found")
		}
		if portal.IsBotChannel && !author.IsBot && !author.IsAdmin() {
			return nil, errs.Forbidden("only bot accounts can post in this portal")
		}
		post.PortalID = &portal.ID
	}
	post.MediaURL, post.MediaType = ResolveMedia(post.Content, req.MediaURL, req.MediaType)
	if post.Content == "" && post.MediaURL == "" {
		return nil, errs.BadRequest("content is required when media_url is empty")
	}

	if err := c.postDAO.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	created, err := c.postDAO.GetPostByID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("post %s vanished after create", post.ID)
	}
	metrics.RecordCreated("post")
	c.events.Publish(types.EventPostCreated, created)
	return created, nil
}

func (c *PostController) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post, err := c.postDAO.GetPostByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errs.NotFound("post not found")
	}
	return post, nil
}

// ListPosts returns the feed, optionally narrowed to one portal.
func (c *PostController) ListPosts(ctx context.Context, portalSlug string, filter dao.PostFilter) ([]models.Post, error) {
	if portalSlug != "" {
		portal, err := c.portalDAO.GetPortalBySlug(ctx, portalSlug)
		if err != nil {
			return nil, err
		}
		if portal == nil {
			return nil, errs.NotFound("portal not found")
		}
		filter.PortalID = &portal.ID
	}
	return c.postDAO.ListPosts(ctx, filter)
}

func (c *PostController) UpdatePost(ctx context.Context, userID, id uuid.UUID, req types.UpdatePostRequest) (*models.Post, error) {
	post, err := c.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, errs.Forbidden("only the author can edit this post")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errs.BadRequest("content is required")
	}
	if err := c.postDAO.UpdatePost(ctx, id, map[string]interface{}{"content": content}); err != nil {
		return nil, err
	}
	return c.GetPost(ctx, id)
}

func (c *PostController) DeletePost(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) error {
	post, err := c.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != userID && role != models.RoleAdmin {
		return errs.Forbidden("only the author or an admin can delete this post")
	}
	if err := c.postDAO.DeletePost(ctx, id); err != nil {
		return err
	}
	logging.AppLogger.Info("post deleted", zap.String("post_id", id.String()), zap.String("by", userID.String()))
	c.events.Publish(types.EventPostDeleted, map[string]string{"id": id.String()})
	return nil
}
