package bots

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"oxypace/oxypace/sources/psql/dao"
	"oxypace/oxypace/sources/psql/models"
	"oxypace/oxypace/utils/errs"
	"oxypace/oxypace/utils/logging"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	users   *dao.UserDAO
	portals *dao.PortalDAO
	posts   *dao.PostDAO
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		users:   dao.NewUserDAO(db),
		portals: dao.NewPortalDAO(db),
		posts:   dao.NewPostDAO(db),
	}
}

type SetupResult struct {
	Username      string
	PortalSlug    string
	PortalCreated bool
	Created       bool
	Skipped       bool
	// Conflict is set when the slug belongs to a portal that is not a bot channel.
	Conflict bool
	Reason   string
}

// Setup creates each bot's portal and account. A bot whose email or username
// is already registered is skipped, never re-created.
func (s *Service) Setup(ctx context.Context, defs []Definition) ([]SetupResult, error) {
	results := make([]SetupResult, 0, len(defs))
	for _, def := range defs {
		res := SetupResult{Username: def.Username, PortalSlug: def.Portal.Slug}

		emailTaken, err := s.users.EmailTaken(ctx, def.Email)
		if err != nil {
			return results, err
		}
		usernameTaken, err := s.users.UsernameTaken(ctx, def.Username)
		if err != nil {
			return results, err
		}
		var owner *models.User
		switch {
		case emailTaken:
			res.Skipped, res.Reason = true, "email already registered"
		case usernameTaken:
			res.Skipped, res.Reason = true, "username already taken"
		default:
			owner, err = s.createAccount(ctx, def)
			if err != nil {
				return results, fmt.Errorf("create bot %s: %w", def.Username, err)
			}
			res.Created = true
		}

		portal := &models.Portal{
			Slug:         def.Portal.Slug,
			Name:         def.Portal.Name,
			Description:  def.Portal.Description,
			IsBotChannel: true,
		}
		if owner != nil {
			portal.CreatedByID = &owner.ID
		}
		existing, created, err := s.portals.GetOrCreatePortal(ctx, portal)
		if err != nil {
			return results, fmt.Errorf("portal %s: %w", def.Portal.Slug, err)
		}
		res.PortalCreated = created
		if !existing.IsBotChannel {
			res.Conflict = true
			res.Reason = fmt.Sprintf("portal /%s already exists and is not a bot channel", def.Portal.Slug)
			logging.AppLogger.Warn("bot portal conflict", zap.String("username", def.Username), zap.String("slug", def.Portal.Slug))
		}

		logging.AppLogger.Info("bot setup",
			zap.String("username", def.Username),
			zap.Bool("created", res.Created),
			zap.Bool("portal_created", res.PortalCreated),
		)
		results = append(results, res)
	}
	return results, nil
}

func (s *Service) createAccount(ctx context.Context, def Definition) (*models.User, error) {
	password, err := randomPassword()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Email:        def.Email,
		Username:     def.Username,
		PasswordHash: string(hash),
		DisplayName:  def.DisplayName,
		Bio:          def.Bio,
		Verified:     true,
		IsBot:        true,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// randomPassword is never shown to anyone; bot accounts do not log in.
func randomPassword() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

type VerifyReport struct {
	Username      string
	AccountExists bool
	Verified      bool
	IsBot         bool
	PortalExists  bool
	BotChannel    bool
	Posts         int64
}

// OK reports whether the bot is fully provisioned.
func (r VerifyReport) OK() bool {
	return r.AccountExists && r.Verified && r.IsBot && r.PortalExists && r.BotChannel
}

func (s *Service) Verify(ctx context.Context, defs []Definition) ([]VerifyReport, error) {
	reports := make([]VerifyReport, 0, len(defs))
	for _, def := range defs {
		rep := VerifyReport{Username: def.Username}
		user, err := s.users.GetUserByUsername(ctx, def.Username)
		if err != nil {
			return reports, err
		}
		if user != nil {
			rep.AccountExists = true
			rep.Verified = user.Verified
			rep.IsBot = user.IsBot
			if rep.Posts, err = s.posts.CountPostsByAuthor(ctx, user.ID); err != nil {
				return reports, err
			}
		}
		portal, err := s.portals.GetPortalBySlug(ctx, def.Portal.Slug)
		if err != nil {
			return reports, err
		}
		if portal != nil {
			rep.PortalExists = true
			rep.BotChannel = portal.IsBotChannel
		}
		reports = append(reports, rep)
	}
	return reports, nil
}

type MigrateResult struct {
	Username string
	Portal   string
	Modified int64
}

// MigratePosts files every post authored by a bot under that bot's portal.
// An empty username migrates all defined bots.
func (s *Service) MigratePosts(ctx context.Context, defs []Definition, username string) ([]MigrateResult, error) {
	targets := defs
	if username != "" {
		def, ok := Find(defs, username)
		if !ok {
			return nil, errs.NotFound(fmt.Sprintf("no bot definition for %s", username))
		}
		targets = []Definition{def}
	}

	results := make([]MigrateResult, 0, len(targets))
	for _, def := range targets {
		user, err := s.users.GetUserByUsername(ctx, def.Username)
		if err != nil {
			return results, err
		}
		if user == nil {
			if username != "" {
				return results, errs.NotFound(fmt.Sprintf("bot account %s not found", def.Username))
			}
			logging.AppLogger.Warn("bot account missing, skipping migration", zap.String("username", def.Username))
			continue
		}
		portal, _, err := s.portals.GetOrCreatePortal(ctx, &models.Portal{
			Slug:         def.Portal.Slug,
			Name:         def.Portal.Name,
			Description:  def.Portal.Description,
			IsBotChannel: true,
			CreatedByID:  &user.ID,
		})
		if err != nil {
			return results, err
		}
		if !portal.IsBotChannel {
			return results, errs.Conflict(fmt.Sprintf("portal /%s is not a bot channel", portal.Slug))
		}
		n, err := s.posts.AssignPortalToAuthorPosts(ctx, user.ID, portal.ID)
		if err != nil {
			return results, fmt.Errorf("migrate %s: %w", def.Username, err)
		}
		results = append(results, MigrateResult{Username: def.Username, Portal: portal.Slug, Modified: n})
	}
	return results, nil
}

// Restore clears the soft-delete marker on the account matching identifier.
func (s *Service) Restore(ctx context.Context, identifier string) (*models.User, error) {
	user, err := s.users.RestoreUser(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.NotFound(fmt.Sprintf("no account matches %s", identifier))
	}
	logging.AppLogger.Info("account restored", zap.String("username", user.Username))
	return user, nil
}
