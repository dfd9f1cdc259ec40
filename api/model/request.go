package model

import (
	"mime/multipart"
)

// CredentialsRequest 注册和登录请求
type CredentialsRequest struct {
	Username string `json:"username" binding:"required,max=64"`  // 用户名
	Password string `json:"password" binding:"required,max=128"` // 密码
}

// MaterialUploadRequest 资料上传请求，file 与 url 二选一
type MaterialUploadRequest struct {
	File       *multipart.FileHeader `form:"file" binding:"omitempty"`                   // 文件对象
	URL        string                `form:"url" binding:"omitempty,url"`                // 网页地址
	StartDate  string                `form:"start_date" binding:"required,isodate"`      // 开始日期
	EndDate    string                `form:"end_date" binding:"required,isodate"`        // 结束日期
	DailyHours float64               `form:"daily_hours" binding:"required,gt=0,lte=12"` // 每日学习时长
}

// MaterialURIRequest 路径中的资料ID
type MaterialURIRequest struct {
	ID string `uri:"id" binding:"required"` // 资料ID
}

// AskRequest 问答请求
type AskRequest struct {
	Question string `json:"question" binding:"required"` // 问题内容
}

// QuizRequest 测验请求
type QuizRequest struct {
	Difficulty string `json:"difficulty" binding:"omitempty"` // 难度：easy, medium, hard, pro
}

// VideoRequest 视频推荐请求
type VideoRequest struct {
	Topic    string `json:"topic" binding:"required"`     // 主题
	Language string `json:"language" binding:"omitempty"` // 语言，默认en
}
