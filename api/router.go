package api

import (
	"github.com/gin-gonic/gin"

	"github.com/fyerfyer/study-planner/api/handler"
	"github.com/fyerfyer/study-planner/api/middleware"
	"github.com/fyerfyer/study-planner/api/model"
)

// RouterOption 路由配置选项，在注册路由之前应用
type RouterOption func(*gin.Engine)

// WithCors 启用跨域中间件
func WithCors() RouterOption {
	return func(r *gin.Engine) {
		r.Use(Cors())
	}
}

// SetupRouter 设置API路由
// 配置所有的API端点并应用中间件
func SetupRouter(
	authHandler *handler.AuthHandler,
	materialHandler *handler.MaterialHandler,
	videoHandler *handler.VideoHandler,
	auth middleware.Authenticator,
	opts ...RouterOption,
) *gin.Engine {
	if err := model.RegisterValidators(); err != nil {
		middleware.GetLogger().WithField(middleware.FieldError, err.Error()).Error("Failed to register validators")
	}

	router := gin.New()

	// 应用全局中间件，追踪ID需要最先设置
	router.Use(middleware.SetTraceID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorMiddleware())

	for _, opt := range opts {
		opt(router)
	}

	// 在调试模式下记录请求体
	if gin.Mode() == gin.DebugMode {
		router.Use(middleware.RequestBodyLog())
	}

	api := router.Group("/api")
	{
		// 账号API
		authGroup := api.Group("/auth")
		{
			// 注册 - POST /api/auth/register
			authGroup.POST("/register", authHandler.Register)

			// 登录 - POST /api/auth/login
			authGroup.POST("/login", authHandler.Login)

			// 注销 - POST /api/auth/logout
			authGroup.POST("/logout", middleware.RequireAuth(auth), authHandler.Logout)
		}

		// 学习资料API，需要登录
		materialGroup := api.Group("/materials", middleware.RequireAuth(auth))
		{
			// 上传资料并生成计划 - POST /api/materials
			materialGroup.POST("", materialHandler.Upload)

			// 资料列表 - GET /api/materials
			materialGroup.GET("", materialHandler.List)

			// 学习计划 - GET /api/materials/:id/plan
			materialGroup.GET("/:id/plan", materialHandler.GetStudyPlan)

			// 问答 - POST /api/materials/:id/ask
			materialGroup.POST("/:id/ask", materialHandler.Ask)

			// 测验 - POST /api/materials/:id/quiz
			materialGroup.POST("/:id/quiz", materialHandler.Quiz)

			// 进度反馈 - GET /api/materials/:id/feedback
			materialGroup.GET("/:id/feedback", materialHandler.Feedback)

			// 删除资料 - DELETE /api/materials/:id
			materialGroup.DELETE("/:id", materialHandler.Delete)
		}

		// 视频推荐 - POST /api/videos
		api.POST("/videos", videoHandler.Recommend)

		// 健康检查API
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})
	}

	return router
}

// Cors 跨域资源共享中间件
// 如果需要支持跨域请求，可以启用此中间件
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Trace-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
