package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage 本地文件存储实现
// 文件平铺保存为 <id><ext>，按ID前缀查找
type LocalStorage struct {
	basePath string // 基础存储路径
}

// LocalConfig 本地存储配置
type LocalConfig struct {
	Path string // 本地存储路径
}

// NewLocalStorage 创建本地存储实例
func NewLocalStorage(cfg LocalConfig) (*LocalStorage, error) {
	absPath, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if err := os.MkdirAll(absPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{basePath: absPath}, nil
}

// Save 保存文件到本地存储
func (s *LocalStorage) Save(_ context.Context, reader io.Reader, filename string) (FileInfo, error) {
	id := uuid.New().String()
	name := id + strings.ToLower(filepath.Ext(filename))
	filePath := filepath.Join(s.basePath, name)

	file, err := os.Create(filePath)
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to create file: %w", err)
	}

	size, err := io.Copy(file, reader)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(filePath)
		return FileInfo{}, fmt.Errorf("failed to write file: %w", err)
	}

	return FileInfo{
		ID:       id,
		Name:     filename,
		Size:     size,
		MimeType: getMimeType(filename),
		Path:     name,
	}, nil
}

// Get 获取文件内容
func (s *LocalStorage) Get(_ context.Context, id string) (io.ReadCloser, error) {
	filePath, err := s.LocalPath(id)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Delete 删除文件
func (s *LocalStorage) Delete(_ context.Context, id string) error {
	filePath, err := s.LocalPath(id)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists 检查文件是否存在
func (s *LocalStorage) Exists(_ context.Context, id string) (bool, error) {
	_, err := s.LocalPath(id)
	if err == ErrFileNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// LocalPath 根据ID查找文件的绝对路径
func (s *LocalStorage) LocalPath(id string) (string, error) {
	// ID必须是uuid，防止通配符或路径穿越
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrFileNotFound
	}

	matches, err := filepath.Glob(filepath.Join(s.basePath, id+"*"))
	if err != nil {
		return "", fmt.Errorf("error searching for file: %w", err)
	}
	for _, m := range matches {
		base := filepath.Base(m)
		if strings.TrimSuffix(base, filepath.Ext(base)) == id {
			return m, nil
		}
	}
	return "", ErrFileNotFound
}
