package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/study-planner/api/middleware"
	"github.com/fyerfyer/study-planner/api/model"
	"github.com/fyerfyer/study-planner/internal/models"
	"github.com/fyerfyer/study-planner/internal/services"
)

// AuthHandler 处理注册、登录和注销请求
type AuthHandler struct {
	auth   *services.AuthService // 账号服务
	logger *logrus.Logger        // 日志记录器
}

// NewAuthHandler 创建账号处理器
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: middleware.GetLogger(),
	}
}

// Register 注册新用户
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, invalidRequest(err))
		return
	}

	token, err := h.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	middleware.Success(c, http.StatusCreated, model.TokenResponse{
		Token:    token,
		Username: req.Username,
	})
}

// Login 登录并返回新的会话令牌
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, invalidRequest(err))
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	middleware.Success(c, http.StatusOK, model.TokenResponse{
		Token:    token,
		Username: req.Username,
	})
}

// Logout 作废当前会话令牌
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), c.GetString(middleware.ContextToken)); err != nil {
		middleware.HandleError(c, err)
		return
	}

	h.logger.WithField(middleware.FieldUsername, middleware.Username(c)).Info("User logged out")
	middleware.Success(c, http.StatusOK, nil)
}

// invalidRequest 把参数绑定错误包装为校验错误
func invalidRequest(err error) error {
	return models.NewError(models.KindValidation, "invalid request parameters", err)
}
