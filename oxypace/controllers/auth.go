package controllers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"oxypace/oxypace/config"
	"oxypace/oxypace/sources/psql/dao"
	"oxypace/oxypace/sources/psql/models"
	"oxypace/oxypace/types"
	"oxypace/oxypace/utils/errs"
	"oxypace/oxypace/utils/logging"
	"oxypace/oxypace/utils/metrics"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct {
	userDAO *dao.UserDAO
	cfg     config.Config
}

func NewAuthController(userDAO *dao.UserDAO, cfg config.Config) *AuthController {
	return &AuthController{
		userDAO: userDAO,
		cfg:     cfg,
	}
}

func (c *AuthController) Register(ctx context.Context, req types.RegisterRequest) (*types.AuthResponse, error) {
	taken, err := c.userDAO.EmailTaken(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.Conflict("email is already registered")
	}
	taken, err = c.userDAO.UsernameTaken(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errs.Conflict("username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = req.Username
	}
	user := &models.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
		DisplayName:  displayName,
	}
	if err := c.userDAO.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	metrics.RecordCreated("user")
	logging.AppLogger.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("username", user.Username))

	token, err := c.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &types.AuthResponse{Token: token, User: user}, nil
}

func (c *AuthController) Login(ctx context.Context, req types.LoginRequest) (*types.AuthResponse, error) {
	user, err := c.userDAO.GetUserByIdentifier(ctx, strings.TrimSpace(req.Identifier))
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsBot {
		return nil, errs.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errs.Unauthorized("invalid credentials")
	}
	token, err := c.IssueToken(user)
	if err != nil {
		return nil, err
	}
	return &types.AuthResponse{Token: token, User: user}, nil
}

// IssueToken signs an HS256 token carrying the user's id and role.
func (c *AuthController) IssueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(c.cfg.JWTTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.cfg.JWTSecret))
}
