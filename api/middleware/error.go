package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fyerfyer/study-planner/api/model"
	"github.com/fyerfyer/study-planner/internal/models"
)

// StatusForError 把领域错误映射为HTTP状态码
func StatusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalidCredentials), errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrMaterialNotFound), errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound
	}

	switch models.KindOf(err) {
	case models.KindValidation, models.KindUnsupportedFormat, models.KindEmptyContent, models.KindNoContent:
		return http.StatusBadRequest
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindExtraction:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// ErrorMiddleware 统一错误处理中间件
// 恢复panic，并把处理器通过 HandleError 记录的错误转换为统一响应
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.WithFields(logrus.Fields{
					FieldError:   err,
					"stack":      string(debug.Stack()),
					FieldPath:    c.Request.URL.Path,
					FieldTraceID: TraceID(c),
				}).Error("Panic recovered in API request")

				resp := model.NewErrorResponse(http.StatusInternalServerError, "An unexpected error occurred")
				if gin.Mode() == gin.DebugMode {
					resp.Message = fmt.Sprintf("Panic: %v", err)
				}
				resp.TraceID = TraceID(c)

				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := StatusForError(err)

		entry := log.WithFields(logrus.Fields{
			FieldTraceID: TraceID(c),
			FieldPath:    c.Request.URL.Path,
			FieldStatus:  status,
			"kind":       models.KindOf(err),
		})
		message := err.Error()
		if status >= http.StatusInternalServerError {
			entry.Error(message)
			if gin.Mode() != gin.DebugMode {
				message = "Internal server error"
			}
		} else {
			entry.Warn(message)
		}

		resp := model.NewErrorResponse(status, message)
		resp.TraceID = TraceID(c)
		c.AbortWithStatusJSON(status, resp)
	}
}

// HandleError 在处理器中使用的错误处理辅助函数
func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)
}

// Success 写入带追踪ID的成功响应
func Success(c *gin.Context, status int, data interface{}) {
	resp := model.NewSuccessResponse(data)
	resp.TraceID = TraceID(c)
	c.JSON(status, resp)
}
