package controllers

import (
	"context"

	"oxypace/oxypace/sources/psql/dao"
	"oxypace/oxypace/sources/psql/models"
	"oxypace/oxypace/types"
	"oxypace/oxypace/utils/errs"

	"github.com/google/uuid"
)

type PortalController struct {
	dao     *dao.PortalDAO
	postDAO *dao.PostDAO
}

func NewPortalController(dao *dao.PortalDAO, postDAO *dao.PostDAO) *PortalController {
	return &PortalController{dao: dao, postDAO: postDAO}
}

func (c *PortalController) ListPortals(ctx context.Context) ([]models.Portal, error) {
	return c.dao.ListPortals(ctx)
}

func (c *PortalController) CreatePortal(ctx context.Context, userID uuid.UUID, req types.CreatePortalRequest) (*models.Portal, error) {
	existing, err := c.dao.GetPortalBySlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.Conflict("portal already exists")
	}
	portal := &models.Portal{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		CreatedByID: &userID,
	}
	if err := c.dao.CreatePortal(ctx, portal); err != nil {
		return nil, err
	}
	return portal, nil
}

func (c *PortalController) GetPortal(ctx context.Context, slug string) (*models.Portal, error) {
	portal, err := c.dao.GetPortalBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if portal == nil {
		return nil, errs.NotFound("portal not found")
	}
	return portal, nil
}

func (c *PortalController) ListPortalPosts(ctx context.Context, slug string, filter dao.PostFilter) ([]models.Post, error) {
	portal, err := c.GetPortal(ctx, slug)
	if err != nil {
		return nil, err
	}
	filter.PortalID = &portal.ID
	return c.postDAO.ListPosts(ctx, filter)
}
