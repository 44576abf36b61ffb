package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"oxypace/oxypace/sources/psql/models"
	"oxypace/oxypace/utils/errs"

	"gorm.io/gorm"
)

type PortalDAO struct {
	DB *gorm.DB
}

func NewPortalDAO(db *gorm.DB) *PortalDAO {
	return &PortalDAO{DB: db}
}

func (dao *PortalDAO) CreatePortal(ctx context.Context, portal *models.Portal) error {
	portal.Slug = strings.ToLower(portal.Slug)
	err := dao.DB.WithContext(ctx).Create(portal).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("portal %s: %w", portal.Slug, errs.ErrConflict)
	}
	return err
}

func (dao *PortalDAO) GetPortalBySlug(ctx context.Context, slug string) (*models.Portal, error) {
	var portal models.Portal
	err := dao.DB.WithContext(ctx).Where("slug = ?", strings.ToLower(slug)).First(&portal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &portal, nil
}

// GetOrCreatePortal returns the portal with portal.Slug, creating it from portal when missing.
// The boolean reports whether a row was created.
func (dao *PortalDAO) GetOrCreatePortal(ctx context.Context, portal *models.Portal) (*models.Portal, bool, error) {
	existing, err := dao.GetPortalBySlug(ctx, portal.Slug)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	if err := dao.CreatePortal(ctx, portal); err != nil {
		return nil, false, err
	}
	return portal, true, nil
}

func (dao *PortalDAO) ListPortals(ctx context.Context) ([]models.Portal, error) {
	var portals []models.Portal
	err := dao.DB.WithContext(ctx).Order("name asc").Find(&portals).Error
	if err != nil {
		return nil, err
	}
	return portals, nil
}
