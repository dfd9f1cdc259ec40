package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fyerfyer/study-planner/api/middleware"
	"github.com/fyerfyer/study-planner/api/model"
	"github.com/fyerfyer/study-planner/internal/services"
)

// VideoHandler 处理视频推荐请求
type VideoHandler struct {
	videos *services.VideoService
}

// NewVideoHandler 创建视频推荐处理器
func NewVideoHandler(videos *services.VideoService) *VideoHandler {
	return &VideoHandler{videos: videos}
}

// Recommend 按主题推荐视频
// POST /api/videos
func (h *VideoHandler) Recommend(c *gin.Context) {
	var req model.VideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, invalidRequest(err))
		return
	}

	rec, err := h.videos.Recommend(req.Topic, req.Language)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	middleware.Success(c, http.StatusOK, rec)
}
