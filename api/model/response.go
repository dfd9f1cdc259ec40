package model

import (
	"time"

	"github.com/fyerfyer/study-planner/internal/models"
)

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`               // 响应状态码，0表示成功
	Message string      `json:"message"`            // 响应消息
	Data    interface{} `json:"data,omitempty"`     // 响应数据，可能为空
	TraceID string      `json:"trace_id,omitempty"` // 调用链追踪ID
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) *Response {
	return &Response{
		Code:    code,
		Message: message,
	}
}

// TokenResponse 注册和登录响应
type TokenResponse struct {
	Token    string `json:"token"`    // 会话令牌
	Username string `json:"username"` // 用户名
}

// MaterialInfo 资料信息
type MaterialInfo struct {
	ID         string    `json:"id"`          // 资料ID
	FileName   string    `json:"filename"`    // 文件名或URL
	SourceType string    `json:"source_type"` // 来源类型：upload 或 url
	StartDate  string    `json:"start_date"`  // 开始日期
	EndDate    string    `json:"end_date"`    // 结束日期
	DailyHours float64   `json:"daily_hours"` // 每日学习时长
	Entries    int       `json:"entries"`     // 计划条目数
	WordCount  int       `json:"word_count"`  // 单词数
	CreatedAt  time.Time `json:"created_at"`  // 创建时间
}

// NewMaterialInfo 将资料模型转换为响应结构
func NewMaterialInfo(m *models.Material) MaterialInfo {
	return MaterialInfo{
		ID:         m.ID,
		FileName:   m.FileName,
		SourceType: string(m.SourceType),
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
		DailyHours: m.DailyHours,
		Entries:    m.EntryCount,
		WordCount:  m.WordCount,
		CreatedAt:  m.CreatedAt,
	}
}

// StudyPlanResponse 上传和计划查询响应
type StudyPlanResponse struct {
	Material MaterialInfo `json:"material"` // 资料信息
	*models.ProcessingResult
}

// MaterialListResponse 资料列表响应
type MaterialListResponse struct {
	Total     int            `json:"total"`     // 总数量
	Materials []MaterialInfo `json:"materials"` // 资料列表
}

// MaterialDeleteResponse 资料删除响应
type MaterialDeleteResponse struct {
	Success bool   `json:"success"` // 是否成功
	ID      string `json:"id"`      // 资料ID
}

// AnswerResponse 问答响应
type AnswerResponse struct {
	Question string `json:"question"` // 用户问题
	Answer   string `json:"answer"`   // 回答
}

// QuizResponse 测验响应
type QuizResponse struct {
	Difficulty string                `json:"difficulty"` // 难度
	Questions  []models.QuizQuestion `json:"questions"`  // 题目列表
}
