package models

import (
	"errors"
	"fmt"
)

// ErrorKind 核心流程的错误类型标签
type ErrorKind string

const (
	// KindNotFound 本地文件不存在
	KindNotFound ErrorKind = "NOT_FOUND"
	// KindUnsupportedFormat 不支持的文件扩展名
	KindUnsupportedFormat ErrorKind = "UNSUPPORTED_FORMAT"
	// KindExtraction PDF/DOCX/URL读取失败
	KindExtraction ErrorKind = "EXTRACTION_ERROR"
	// KindEmptyContent 提取成功但没有可用文本
	KindEmptyContent ErrorKind = "EMPTY_CONTENT"
	// KindValidation 日期区间或学习时长不合法
	KindValidation ErrorKind = "VALIDATION_ERROR"
	// KindNoContent 分句后没有任何句子
	KindNoContent ErrorKind = "NO_CONTENT"
	// KindProcessing 生成学习计划过程中的汇总错误
	KindProcessing ErrorKind = "PROCESSING_ERROR"
)

// Error 带类型标签的错误
// Is 按Kind比较，因此 errors.Is(err, ErrValidation) 可以穿透包装链
type Error struct {
	Kind    ErrorKind // 错误类型
	Message string    // 错误描述
	Err     error     // 原始错误（可选）
}

// Error 实现error接口
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap 返回被包装的错误
func (e *Error) Unwrap() error {
	return e.Err
}

// Is 判断是否为同一类错误
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// NewError 创建带类型的错误
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Errorf 按格式创建带类型的错误
func Errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf 返回错误链中最内层的类型标签，没有则返回空字符串
func KindOf(err error) ErrorKind {
	var kind ErrorKind
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			break
		}
		kind = e.Kind
		err = e.Err
	}
	return kind
}

// 用于 errors.Is 判断的哨兵错误
var (
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrUnsupportedFormat = &Error{Kind: KindUnsupportedFormat}
	ErrExtraction        = &Error{Kind: KindExtraction}
	ErrEmptyContent      = &Error{Kind: KindEmptyContent}
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNoContent         = &Error{Kind: KindNoContent}
	ErrProcessing        = &Error{Kind: KindProcessing}
)

var (
	// ErrMaterialNotFound 学习资料不存在
	ErrMaterialNotFound = errors.New("material not found")

	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists 用户名已存在
	ErrUserExists = errors.New("username already exists")

	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUnauthorized 会话无效或已过期
	ErrUnauthorized = errors.New("unauthorized")
)
