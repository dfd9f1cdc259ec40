package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SourceType 学习资料来源类型
type SourceType string

const (
	// SourceUpload 上传的文件
	SourceUpload SourceType = "upload"
	// SourceURL 网页链接
	SourceURL SourceType = "url"
)

// Material 学习资料数据模型
// 保存上传信息、计划参数以及处理结果
type Material struct {
	ID          string         `gorm:"primaryKey"`         // 资料ID
	Owner       string         `gorm:"not null;index"`     // 所属用户名
	FileName    string         `gorm:"not null"`           // 原始文件名或URL
	SourceType  SourceType     `gorm:"size:20;not null"`   // 来源类型
	FileID      string         `gorm:"size:50;index"`      // 存储中的文件ID（上传时）
	Source      string         `gorm:"type:text;not null"` // 存储路径或URL
	StartDate   string         `gorm:"size:10;not null"`   // 开始日期
	EndDate     string         `gorm:"size:10;not null"`   // 结束日期
	DailyHours  float64        `gorm:"not null"`           // 每日学习时长
	Result      datatypes.JSON `gorm:"type:json"`          // ProcessingResult 的JSON
	CreatedAt   time.Time      `gorm:"not null;index"`     // 创建时间
	UpdatedAt   time.Time      `gorm:"not null"`           // 更新时间
	EntryCount  int            `gorm:"not null;default:0"` // 学习计划条目数
	WordCount   int            `gorm:"not null;default:0"` // 文档词数
}

// BeforeCreate GORM的钩子函数，创建记录前自动设置时间
func (m *Material) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	return nil
}

// BeforeUpdate GORM的钩子函数，更新记录前自动设置更新时间
func (m *Material) BeforeUpdate(tx *gorm.DB) (err error) {
	m.UpdatedAt = time.Now()
	return nil
}

// TableName 明确指定表名
func (Material) TableName() string {
	return "materials"
}

// User 用户数据模型
type User struct {
	Username     string    `gorm:"primaryKey;size:64"` // 用户名
	PasswordHash string    `gorm:"not null"`           // argon2id 哈希
	CreatedAt    time.Time `gorm:"not null"`           // 注册时间
}

// BeforeCreate GORM的钩子函数
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	return nil
}

// TableName 明确指定表名
func (User) TableName() string {
	return "users"
}
