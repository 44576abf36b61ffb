package controllers

import (
	"context"

	"oxypace/oxypace/sources/psql/dao"
	"oxypace/oxypace/sources/psql/models"
	"oxypace/oxypace/types"
	"oxypace/oxypace/utils/errs"
	"oxypace/oxypace/utils/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserController struct {
	dao     *dao.UserDAO
	postDAO *dao.PostDAO
}

func NewUserController(dao *dao.UserDAO, postDAO *dao.PostDAO) *UserController {
	return &UserController{dao: dao, postDAO: postDAO}
}

func (c *UserController) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := c.dao.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.NotFound("user not found")
	}
	return user, nil
}

func (c *UserController) GetProfile(ctx context.Context, username string) (*types.Profile, error) {
	user, err := c.dao.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.NotFound("user not found")
	}
	count, err := c.postDAO.CountPostsByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &types.Profile{User: user, PostCount: count}, nil
}

func (c *UserController) UpdateProfile(ctx context.Context, id uuid.UUID, req types.UpdateProfileRequest) (*models.User, error) {
	user, err := c.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if err := c.dao.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount soft-deletes the caller's account. restore-account brings it back.
func (c *UserController) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	if _, err := c.GetUser(ctx, id); err != nil {
		return err
	}
	if err := c.dao.DeleteUser(ctx, id); err != nil {
		return err
	}
	logging.AppLogger.Info("account deleted", zap.String("user_id", id.String()))
	return nil
}

func (c *UserController) ListUserPosts(ctx context.Context, username string, filter dao.PostFilter) ([]models.Post, error) {
	user, err := c.dao.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.NotFound("user not found")
	}
	filter.AuthorID = &user.ID
	return c.postDAO.ListPosts(ctx, filter)
}

// SetVerified grants or removes the verification badge.
func (c *UserController) SetVerified(ctx context.Context, username string, verified bool) (*models.User, error) {
	user, err := c.dao.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.NotFound("user not found")
	}
	if err := c.dao.UpdateUserFields(ctx, user.ID, map[string]interface{}{"verified": verified}); err != nil {
		return nil, err
	}
	user.Verified = verified
	logging.AppLogger.Info("verification changed", zap.String("username", user.Username), zap.Bool("verified", verified))
	return user, nil
}
