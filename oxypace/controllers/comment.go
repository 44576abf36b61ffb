package controllers

import (
	"context"
	"strings"

	"oxypace/oxypace/sources/psql/dao"
	"oxypace/oxypace/sources/psql/models"
	"oxypace/oxypace/types"
	"oxypace/oxypace/utils/errs"
	"oxypace/oxypace/utils/metrics"

	"github.com/google/uuid"
)

type CommentController struct {
	commentDAO *dao.CommentDAO
	postDAO    *dao.PostDAO
	userDAO    *dao.UserDAO
	events     Publisher
}

func NewCommentController(commentDAO *dao.CommentDAO, postDAO *dao.PostDAO, userDAO *dao.UserDAO, events Publisher) *CommentController {
	return &CommentController{
		commentDAO: commentDAO,
		postDAO:    postDAO,
		userDAO:    userDAO,
		events:     publisherOrNop(events),
	}
}

func (c *CommentController) requirePost(ctx context.Context, postID uuid.UUID) error {
	post, err := c.postDAO.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return errs.NotFound("post not found")
	}
	return nil
}

func (c *CommentController) ListComments(ctx context.Context, postID uuid.UUID) ([]models.Comment, error) {
	if err := c.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	return c.commentDAO.ListCommentsByPost(ctx, postID)
}

func (c *CommentController) CreateComment(ctx context.Context, userID, postID uuid.UUID, req types.CreateCommentRequest) (*models.Comment, error) {
	author, err := c.userDAO.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, errs.Unauthorized("account no longer exists")
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errs.BadRequest("content is required")
	}
	if err := c.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	comment := &models.Comment{
		PostID:   postID,
		AuthorID: author.ID,
		Content:  content,
	}
	if err := c.commentDAO.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	created, err := c.commentDAO.GetCommentByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		comment.Author = author
		created = comment
	}
	metrics.RecordCreated("comment")
	c.events.Publish(types.EventCommentCreated, created)
	return created, nil
}

func (c *CommentController) DeleteComment(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) error {
	comment, err := c.commentDAO.GetCommentByID(ctx, id)
	if err != nil {
		return err
	}
	if comment == nil {
		return errs.NotFound("comment not found")
	}
	if comment.AuthorID != userID && role != models.RoleAdmin {
		return errs.Forbidden("only the author or an admin can delete this comment")
	}
	return c.commentDAO.DeleteComment(ctx, id)
}
