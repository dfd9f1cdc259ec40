package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/study-planner/api/middleware"
	"github.com/fyerfyer/study-planner/api/model"
	"github.com/fyerfyer/study-planner/internal/services"
)

// MaterialHandler 处理学习资料相关的API请求
type MaterialHandler struct {
	materials *services.MaterialService // 资料服务
	logger    *logrus.Logger            // 日志记录器
	now       func() time.Time          // 计算进度使用的时钟
}

// NewMaterialHandler 创建资料处理器
func NewMaterialHandler(materials *services.MaterialService) *MaterialHandler {
	return &MaterialHandler{
		materials: materials,
		logger:    middleware.GetLogger(),
		now:       time.Now,
	}
}

// Upload 上传资料并生成学习计划
// POST /api/materials
func (h *MaterialHandler) Upload(c *gin.Context) {
	var req model.MaterialUploadRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.WithFields(logrus.Fields{
			middleware.FieldError:   err.Error(),
			middleware.FieldTraceID: middleware.TraceID(c),
		}).Warn("Invalid material upload request")
		middleware.HandleError(c, invalidRequest(err))
		return
	}

	in := services.UploadInput{
		URL:        req.URL,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		DailyHours: req.DailyHours,
	}
	if req.File != nil {
		file, err := req.File.Open()
		if err != nil {
			h.logger.WithFields(logrus.Fields{
				middleware.FieldError: err.Error(),
				"filename":            req.File.Filename,
			}).Error("Failed to open uploaded file")
			middleware.HandleError(c, err)
			return
		}
		defer file.Close()
		in.File = file
		in.FileName = req.File.Filename
	}

	m, result, err := h.materials.Upload(c.Request.Context(), middleware.Username(c), in)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	middleware.Success(c, http.StatusOK, model.StudyPlanResponse{
		Material:         model.NewMaterialInfo(m),
		ProcessingResult: result,
	})
}

// List 列出当前用户的资料
// GET /api/materials
func (h *MaterialHandler) List(c *gin.Context) {
	materials, err := h.materials.List(c.Request.Context(), middleware.Username(c))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	infos := make([]model.MaterialInfo, 0, len(materials))
	for _, m := range materials {
		infos = append(infos, model.NewMaterialInfo(m))
	}
	middleware.Success(c, http.StatusOK, model.MaterialListResponse{
		Total:     len(infos),
		Materials: infos,
	})
}

// GetStudyPlan 获取资料的学习计划
// GET /api/materials/:id/plan
func (h *MaterialHandler) GetStudyPlan(c *gin.Context) {
	var uri model.MaterialURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleError(c, invalidRequest(err))
		return
	}

	m, result, err := h.materials.GetStudyPlan(c.Request.Context(), middleware.Username(c), uri.ID)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	middleware.Success(c, http.StatusOK, model.StudyPlanResponse{
		Material:         model.NewMaterialInfo(m),
		ProcessingResult: result,
	})
}

// Ask 针对资料回答问题
// POST /api/materials/:id/ask
func (h *MaterialHandler) Ask(c *gin.Context) {
	var uri model.MaterialURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleError(c, invalidRequest(err))
		return
	}
	var req model.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, invalidRequest(err))
		return
	}

	answer, err := h.materials.Ask(c.Request.Context(), middleware.Username(c), uri.ID, req.Question)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	middleware.Success(c, http.StatusOK, model.AnswerResponse{
		Question: req.Question,
		Answer:   answer,
	})
}

// Quiz 针对资料生成测验
// POST /api/materials/:id/quiz
func (h *MaterialHandler) Quiz(c *gin.Context) {
	var uri model.MaterialURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleError(c, invalidRequest(err))
		return
	}
	// 请求体可以为空，此时使用默认难度
	// 分块传输的请求 ContentLength 为 -1，只能以读到 EOF 判断为空
	var req model.QuizRequest
	if c.Request.Body != nil {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			middleware.HandleError(c, invalidRequest(err))
			return
		}
	}
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}

	questions, err := h.materials.Quiz(c.Request.Context(), middleware.Username(c), uri.ID, req.Difficulty)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	middleware.Success(c, http.StatusOK, model.QuizResponse{
		Difficulty: req.Difficulty,
		Questions:  questions,
	})
}

// Feedback 计算学习进度反馈
// GET /api/materials/:id/feedback
func (h *MaterialHandler) Feedback(c *gin.Context) {
	var uri model.MaterialURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleError(c, invalidRequest(err))
		return
	}

	fb, err := h.materials.Feedback(c.Request.Context(), middleware.Username(c), uri.ID, h.now())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	middleware.Success(c, http.StatusOK, fb)
}

// Delete 删除资料
// DELETE /api/materials/:id
func (h *MaterialHandler) Delete(c *gin.Context) {
	var uri model.MaterialURIRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleError(c, invalidRequest(err))
		return
	}

	if err := h.materials.Delete(c.Request.Context(), middleware.Username(c), uri.ID); err != nil {
		middleware.HandleError(c, err)
		return
	}
	middleware.Success(c, http.StatusOK, model.MaterialDeleteResponse{
		Success: true,
		ID:      uri.ID,
	})
}
