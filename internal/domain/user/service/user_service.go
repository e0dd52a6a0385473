package service

import (
	"context"
	"ecommerce_api/internal/domain/user/model"
	"ecommerce_api/internal/domain/user/repository"
	"ecommerce_api/internal/pkg/config"
	"ecommerce_api/pkg/apperr"
	"ecommerce_api/pkg/cache"
	"ecommerce_api/pkg/database"
	"ecommerce_api/pkg/response"
	"ecommerce_api/pkg/utils"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists          = apperr.Validation(response.ErrUserExists, "User with this email already exists")
	ErrUserNotFound        = apperr.NotFound(response.ErrUserNotFound, "User not found")
	ErrInvalidCredentials  = apperr.Unauthorized(response.ErrAuthFailed, "Invalid credentials")
	ErrInvalidRefreshToken = apperr.Unauthorized(response.ErrTokenInvalid, "Invalid or expired refresh token")
)

// UserService 用户服务接口
type UserService interface {
	Register(ctx context.Context, email, password string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*utils.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, time.Time, error)
	Logout(ctx context.Context, accessID string, accessExpiry time.Time, refreshToken string) error
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// userService 实现
type userService struct {
	repo     repository.UserRepository
	tokens   *utils.TokenManager
	denylist cache.CacheService
	app      config.AppConfig
	now      func() time.Time
}

// NewUserService 创建用户服务，denylist 为空时登出不做吊销
func NewUserService(repo repository.UserRepository, tokens *utils.TokenManager, denylist cache.CacheService, app config.AppConfig) UserService {
	return &userService{
		repo:     repo,
		tokens:   tokens,
		denylist: denylist,
		app:      app,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register 注册，管理员名单中的邮箱授予管理员
func (s *userService) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = normalizeEmail(email)

	// 1. 邮箱唯一
	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrUserExists
	case !errors.Is(err, database.ErrNotFound):
		return nil, errors.Wrap(err, "lookup user")
	}

	// 2. 密码哈希
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := &model.User{
		Email:    email,
		Password: string(hash),
		IsAdmin:  s.app.IsAdminEmail(email),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// 并发注册由唯一索引兜底
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, errors.Wrap(err, "create user")
	}
	return user, nil
}

// Login 校验密码并签发 access + refresh
func (s *userService) Login(ctx context.Context, email, password string) (*utils.TokenPair, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "lookup user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.tokens.GenerateTokenPair(user.ID, user.IsAdmin)
}

// Refresh 用 refresh token 换新的 access token，管理员标志以当前库中为准
func (s *userService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.tokens.ParseToken(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return "", time.Time{}, ErrInvalidRefreshToken
	}

	if s.denylist != nil {
		revoked, err := s.denylist.Exists(ctx, utils.RevokedTokenKey(claims.ID))
		if err != nil {
			return "", time.Time{}, errors.Wrap(err, "check denylist")
		}
		if revoked {
			return "", time.Time{}, ErrInvalidRefreshToken
		}
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return "", time.Time{}, ErrInvalidRefreshToken
		}
		return "", time.Time{}, errors.Wrap(err, "lookup user")
	}

	return s.tokens.GenerateAccessToken(user.ID, user.IsAdmin)
}

// Logout 吊销当前 access token，附带的 refresh token 一并吊销
func (s *userService) Logout(ctx context.Context, accessID string, accessExpiry time.Time, refreshToken string) error {
	if s.denylist == nil {
		return nil
	}

	if err := s.revoke(ctx, accessID, accessExpiry); err != nil {
		return err
	}

	if refreshToken == "" {
		return nil
	}
	claims, err := s.tokens.ParseToken(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		// 已失效的 refresh token 无需吊销
		return nil
	}
	return s.revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *userService) revoke(ctx context.Context, jti string, expiry time.Time) error {
	if jti == "" {
		return nil
	}
	ttl := expiry.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.denylist.Set(ctx, utils.RevokedTokenKey(jti), true, ttl); err != nil {
		return errors.Wrap(err, "revoke token")
	}
	return nil
}

// GetUser 获取单个用户
func (s *userService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "get user")
	}
	return user, nil
}
