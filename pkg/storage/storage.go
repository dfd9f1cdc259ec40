package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrFileNotFound 文件不存在
var ErrFileNotFound = errors.New("file not found")

// FileInfo 文件元数据结构
type FileInfo struct {
	ID       string // 文件唯一标识符
	Name     string // 原始文件名
	Size     int64  // 文件大小(字节)
	MimeType string // 文件MIME类型
	Path     string // 内部存储路径(实现相关)
}

// Storage 上传文件存储接口
// 本地文件系统和MinIO各有一个实现
type Storage interface {
	// Save 保存文件并返回文件信息
	Save(ctx context.Context, reader io.Reader, filename string) (FileInfo, error)

	// Get 获取文件内容，调用方负责关闭
	Get(ctx context.Context, id string) (io.ReadCloser, error)

	// Delete 删除文件
	Delete(ctx context.Context, id string) error

	// Exists 检查文件是否存在
	Exists(ctx context.Context, id string) (bool, error)
}

// LocalPather 能直接给出本地文件路径的存储
type LocalPather interface {
	LocalPath(id string) (string, error)
}

// Config 存储配置
type Config struct {
	Type  string      // local 或 minio
	Local LocalConfig // 本地存储配置
	Minio MinioConfig // MinIO配置
}

// NewStorage 根据配置创建存储实现
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local", "":
		return NewLocalStorage(cfg.Local)
	case "minio":
		return NewMinioStorage(cfg.Minio)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// ResolveLocalPath 返回可供解析器读取的本地路径
// 本地存储直接返回文件路径；其他存储下载到临时文件，cleanup负责删除
func ResolveLocalPath(ctx context.Context, s Storage, id, filename string) (path string, cleanup func(), err error) {
	noop := func() {}
	if lp, ok := s.(LocalPather); ok {
		p, err := lp.LocalPath(id)
		return p, noop, err
	}

	rc, err := s.Get(ctx, id)
	if err != nil {
		return "", noop, err
	}
	defer rc.Close()

	// 保留扩展名，解析器按扩展名选择格式
	tmp, err := os.CreateTemp("", "planner-*"+strings.ToLower(filepath.Ext(filename)))
	if err != nil {
		return "", noop, fmt.Errorf("failed to create temp file: %w", err)
	}
	remove := func() { os.Remove(tmp.Name()) }

	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		remove()
		return "", noop, fmt.Errorf("failed to download file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		remove()
		return "", noop, fmt.Errorf("failed to close temp file: %w", err)
	}
	return tmp.Name(), remove, nil
}

// getMimeType 根据文件扩展名判断MIME类型
func getMimeType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".txt":
		return "text/plain"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
