package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"oxypace/oxypace/sources/psql/models"
	"oxypace/oxypace/utils/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserDAO struct {
	DB *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{DB: db}
}

func (dao *UserDAO) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).Where("LOWER(username) = ?", strings.ToLower(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (dao *UserDAO) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByIdentifier looks a user up by email when the identifier contains '@', by username otherwise.
func (dao *UserDAO) GetUserByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	if strings.Contains(identifier, "@") {
		return dao.GetUserByEmail(ctx, identifier)
	}
	return dao.GetUserByUsername(ctx, identifier)
}

// EmailTaken includes soft-deleted accounts so a restorable account keeps its address.
func (dao *UserDAO) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := dao.DB.WithContext(ctx).Unscoped().Model(&models.User{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

func (dao *UserDAO) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var count int64
	err := dao.DB.WithContext(ctx).Unscoped().Model(&models.User{}).
		Where("LOWER(username) = ?", strings.ToLower(username)).
		Count(&count).Error
	return count > 0, err
}

func (dao *UserDAO) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)
	err := dao.DB.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("create user %s: %w", user.Username, errs.ErrConflict)
	}
	return err
}

// UpdateUser updates user fields in DB based on the values in the struct.
func (dao *UserDAO) UpdateUser(ctx context.Context, user *models.User) error {
	return dao.DB.WithContext(ctx).Save(user).Error
}

func (dao *UserDAO) UpdateUserFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return dao.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteUser soft-deletes the account; RestoreUser undoes it.
func (dao *UserDAO) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return dao.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.User{}).Error
}

// RestoreUser clears the soft-delete marker of the account matching identifier
// and returns it. Returns nil when no account, deleted or not, matches.
func (dao *UserDAO) RestoreUser(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	q := dao.DB.WithContext(ctx).Unscoped()
	if strings.Contains(identifier, "@") {
		q = q.Where("email = ?", normalizeEmail(identifier))
	} else {
		q = q.Where("LOWER(username) = ?", strings.ToLower(identifier))
	}
	err := q.First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if user.DeletedAt.Valid {
		err = dao.DB.WithContext(ctx).Unscoped().Model(&models.User{}).
			Where("id = ?", user.ID).
			Update("deleted_at", nil).Error
		if err != nil {
			return nil, err
		}
		user.DeletedAt = gorm.DeletedAt{}
	}
	return &user, nil
}

func (dao *UserDAO) GetAllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := dao.DB.WithContext(ctx).Order("created_at asc").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (dao *UserDAO) ListBots(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := dao.DB.WithContext(ctx).Where("is_bot = ?", true).Order("username asc").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (dao *UserDAO) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := dao.DB.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
