package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/study-planner/internal/models"
	"github.com/fyerfyer/study-planner/internal/repository"
	"github.com/fyerfyer/study-planner/internal/session"
)

// AuthService 账号与会话服务
type AuthService struct {
	users    repository.UserRepository // 用户仓储
	sessions session.Store             // 会话存储
	logger   *logrus.Logger            // 日志记录器
}

// AuthOption 账号服务配置选项
type AuthOption func(*AuthService)

// WithAuthLogger 设置日志记录器
func WithAuthLogger(logger *logrus.Logger) AuthOption {
	return func(s *AuthService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewAuthService 创建账号服务
func NewAuthService(users repository.UserRepository, sessions session.Store, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:    users,
		sessions: sessions,
		logger:   logrus.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register 注册新用户并返回会话令牌
func (s *AuthService) Register(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return "", models.Errorf(models.KindValidation, "username and password are required")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.Create(ctx, &models.User{Username: username, PasswordHash: hash}); err != nil {
		if errors.Is(err, models.ErrUserExists) {
			return "", err
		}
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.WithField("username", username).Info("User registered")
	return s.sessions.Create(ctx, username)
}

// Login 校验密码并返回新的会话令牌
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return "", models.ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return "", models.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	ok, err := ComparePassword(password, user.PasswordHash)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"username": username,
			"error":    err.Error(),
		}).Error("Stored password hash is unreadable")
		return "", models.ErrInvalidCredentials
	}
	if !ok {
		s.logger.WithField("username", username).Warn("Login failed")
		return "", models.ErrInvalidCredentials
	}

	s.logger.WithField("username", username).Info("User logged in")
	return s.sessions.Create(ctx, username)
}

// Logout 作废会话令牌
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// Authenticate 返回令牌对应的用户名
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	return s.sessions.Lookup(ctx, token)
}
